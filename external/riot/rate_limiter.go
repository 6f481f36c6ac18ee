package riot

import (
	"context"
	"sync"
	"time"
)

// RateLimit allows Requests calls per sliding Window.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

// DefaultRateLimits stays below the development key limits of 20/1s and 100/2m.
func DefaultRateLimits() []RateLimit {
	return []RateLimit{
		{Requests: 15, Window: time.Second},
		{Requests: 90, Window: 2 * time.Minute},
	}
}

// rateLimiter keeps one set of sliding windows per routing host. Upstream
// counts application limits per platform and per regional route separately.
type rateLimiter struct {
	mu      sync.Mutex
	limits  []RateLimit
	windows map[string][][]time.Time
	blocked map[string]time.Time
	now     func() time.Time
}

func newRateLimiter(limits []RateLimit) *rateLimiter {
	kept := make([]RateLimit, 0, len(limits))
	for _, limit := range limits {
		if limit.Requests > 0 && limit.Window > 0 {
			kept = append(kept, limit)
		}
	}
	return &rateLimiter{
		limits:  kept,
		windows: make(map[string][][]time.Time),
		blocked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Wait blocks until a request to key fits every window, or ctx is done.
func (l *rateLimiter) Wait(ctx context.Context, key string) error {
	if l == nil {
		return nil
	}
	for {
		wait := l.reserve(key)
		if wait <= 0 {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Penalize holds every request to key until the upstream Retry-After elapses.
func (l *rateLimiter) Penalize(key string, retryAfter time.Duration) {
	if l == nil || retryAfter <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	until := l.now().Add(retryAfter)
	if until.After(l.blocked[key]) {
		l.blocked[key] = until
	}
}

// reserve records a request and returns zero, or returns how long to wait without recording.
func (l *rateLimiter) reserve(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if until, ok := l.blocked[key]; ok {
		if now.Before(until) {
			return until.Sub(now)
		}
		delete(l.blocked, key)
	}
	if len(l.limits) == 0 {
		return 0
	}

	windows, ok := l.windows[key]
	if !ok {
		windows = make([][]time.Time, len(l.limits))
		l.windows[key] = windows
	}

	var wait time.Duration
	for i, limit := range l.limits {
		hits := pruneBefore(windows[i], now.Add(-limit.Window))
		windows[i] = hits
		if len(hits) < limit.Requests {
			continue
		}
		if w := hits[0].Add(limit.Window).Sub(now); w > wait {
			wait = w
		}
	}
	if wait > 0 {
		return wait
	}

	for i := range windows {
		windows[i] = append(windows[i], now)
	}
	return 0
}

func pruneBefore(hits []time.Time, cutoff time.Time) []time.Time {
	idx := 0
	for idx < len(hits) && !hits[idx].After(cutoff) {
		idx++
	}
	return hits[idx:]
}
