package riot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newFakeClockLimiter(limits []RateLimit) (*rateLimiter, *time.Time) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := newRateLimiter(limits)
	limiter.now = func() time.Time { return now }
	return limiter, &now
}

func TestRateLimiter_SlidingWindow(t *testing.T) {
	limiter, now := newFakeClockLimiter([]RateLimit{{Requests: 2, Window: time.Second}})

	require.Zero(t, limiter.reserve("na1"))
	*now = now.Add(300 * time.Millisecond)
	require.Zero(t, limiter.reserve("na1"))

	wait := limiter.reserve("na1")
	require.Equal(t, 700*time.Millisecond, wait)

	// other hosts have their own windows
	require.Zero(t, limiter.reserve("americas"))

	*now = now.Add(701 * time.Millisecond)
	require.Zero(t, limiter.reserve("na1"))
}

func TestRateLimiter_LongestWindowWins(t *testing.T) {
	limiter, now := newFakeClockLimiter([]RateLimit{
		{Requests: 10, Window: time.Second},
		{Requests: 2, Window: time.Minute},
	})

	require.Zero(t, limiter.reserve("kr"))
	require.Zero(t, limiter.reserve("kr"))
	*now = now.Add(5 * time.Second)
	require.Equal(t, 55*time.Second, limiter.reserve("kr"))
}

func TestRateLimiter_Penalize(t *testing.T) {
	limiter, now := newFakeClockLimiter(nil)

	limiter.Penalize("euw1", 3*time.Second)
	limiter.Penalize("euw1", time.Second)
	require.Equal(t, 3*time.Second, limiter.reserve("euw1"))

	*now = now.Add(3 * time.Second)
	require.Zero(t, limiter.reserve("euw1"))
	require.Empty(t, limiter.blocked)
}

func TestRateLimiter_WaitHonoursContext(t *testing.T) {
	limiter, _ := newFakeClockLimiter(nil)
	limiter.Penalize("na1", time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, limiter.Wait(ctx, "na1"), context.Canceled)

	var nilLimiter *rateLimiter
	require.NoError(t, nilLimiter.Wait(context.Background(), "na1"))
}
