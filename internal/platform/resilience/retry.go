package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrRetryExhausted = errors.New("retry attempts exhausted")

// RetryPolicy retries a call with a linear backoff: the wait after attempt n is BaseDelay*n.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	// Retryable decides whether a failure is worth another attempt. Nil retries everything
	// except context cancellation.
	Retryable func(error) bool
	// OnRetry observes each failed attempt that will be retried.
	OnRetry func(attempt int, err error)
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:  3,
		BaseDelay: 100 * time.Millisecond,
	}
}

func (p RetryPolicy) normalize() RetryPolicy {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	if p.BaseDelay < 0 {
		p.BaseDelay = 0
	}
	return p
}

func (p RetryPolicy) retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if p.Retryable == nil {
		return true
	}
	return p.Retryable(err)
}

// Retry runs fn until it succeeds, the policy gives up, or ctx is done.
// The returned error wraps both ErrRetryExhausted and the last failure.
func Retry(ctx context.Context, policy RetryPolicy, fn func(ctx context.Context) error) error {
	_, err := RetryValue(ctx, policy, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

func RetryValue[T any](ctx context.Context, policy RetryPolicy, fn func(ctx context.Context) (T, error)) (T, error) {
	policy = policy.normalize()

	var zero T
	var lastErr error
	for attempt := 1; attempt <= policy.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if attempt == policy.Attempts || !policy.retryable(err) {
			break
		}
		if policy.OnRetry != nil {
			policy.OnRetry(attempt, err)
		}

		timer := time.NewTimer(time.Duration(attempt) * policy.BaseDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, fmt.Errorf("%w: %w", ErrRetryExhausted, lastErr)
}
