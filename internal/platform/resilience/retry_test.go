package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRetry_StopsAfterExactAttempts(t *testing.T) {
	t.Parallel()

	calls := 0
	retried := []int{}
	errBoom := errors.New("boom")
	err := Retry(context.Background(), RetryPolicy{
		Attempts:  3,
		BaseDelay: time.Millisecond,
		OnRetry:   func(attempt int, _ error) { retried = append(retried, attempt) },
	}, func(context.Context) error {
		calls++
		return errBoom
	})

	require.Equal(t, 3, calls)
	require.Equal(t, []int{1, 2}, retried)
	require.ErrorIs(t, err, ErrRetryExhausted)
	require.ErrorIs(t, err, errBoom)
}

func TestRetryValue_SucceedsAfterTransientFailure(t *testing.T) {
	t.Parallel()

	calls := 0
	got, err := RetryValue(context.Background(), RetryPolicy{Attempts: 3}, func(context.Context) (string, error) {
		calls++
		if calls < 2 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	require.Equal(t, "ok", got)
	require.Equal(t, 2, calls)
}

func TestRetry_NonRetryableStopsEarly(t *testing.T) {
	t.Parallel()

	errPermanent := errors.New("permanent")
	calls := 0
	err := Retry(context.Background(), RetryPolicy{
		Attempts:  5,
		Retryable: func(err error) bool { return !errors.Is(err, errPermanent) },
	}, func(context.Context) error {
		calls++
		return errPermanent
	})

	require.Equal(t, 1, calls)
	require.ErrorIs(t, err, errPermanent)
}

func TestRetry_ContextCancelledDuringBackoff(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, RetryPolicy{Attempts: 3, BaseDelay: time.Hour}, func(context.Context) error {
		calls++
		cancel()
		return errors.New("boom")
	})

	require.Equal(t, 1, calls)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRetry_ZeroAttemptsRunsOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	_ = Retry(context.Background(), RetryPolicy{}, func(context.Context) error {
		calls++
		return errors.New("boom")
	})
	require.Equal(t, 1, calls)
}
