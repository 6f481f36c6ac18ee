package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// CircuitBreaker trips after consecutive failures and lets a few probes through once the open timeout passes.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig
	now func() time.Time

	mu       sync.Mutex
	state    CircuitState
	failures int
	openedAt time.Time
	probes   int
	healed   int
}

func NewCircuitBreaker(failureThreshold int, openTimeout time.Duration, halfOpenMaxReq int) *CircuitBreaker {
	return newBreaker(NormalizeCircuitBreakerConfig(CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: failureThreshold,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   halfOpenMaxReq,
	}), time.Now)
}

func newBreaker(cfg CircuitBreakerConfig, now func() time.Time) *CircuitBreaker {
	return &CircuitBreaker{cfg: cfg, now: now, state: CircuitStateClosed}
}

func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen {
		if b.now().Sub(b.openedAt) < b.cfg.OpenTimeout {
			return ErrCircuitOpen
		}
		b.enter(CircuitStateHalfOpen)
	}
	if b.state == CircuitStateHalfOpen {
		if b.probes >= b.cfg.HalfOpenMaxReq {
			return ErrCircuitOpen
		}
		b.probes++
	}
	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.failures = 0
	case CircuitStateHalfOpen:
		b.probes = max(b.probes-1, 0)
		b.healed++
		if b.healed >= b.cfg.HalfOpenMaxReq && b.probes == 0 {
			b.enter(CircuitStateClosed)
		}
	}
}

func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.enter(CircuitStateOpen)
		}
	case CircuitStateHalfOpen:
		b.enter(CircuitStateOpen)
	case CircuitStateOpen:
		b.openedAt = b.now()
	}
}

// State reports half-open for an open breaker whose timeout has already passed.
func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		return CircuitStateHalfOpen
	}
	return b.state
}

// enter resets the counters of the target state. Caller holds mu.
func (b *CircuitBreaker) enter(state CircuitState) {
	b.state = state
	b.probes = 0
	b.healed = 0
	switch state {
	case CircuitStateClosed:
		b.failures = 0
		b.openedAt = time.Time{}
	case CircuitStateOpen:
		b.openedAt = b.now()
	}
}

// Guard runs fn behind the breaker. isFailure selects the errors that count
// against the dependency; nil counts every error. A nil breaker runs fn directly.
func (b *CircuitBreaker) Guard(fn func() error, isFailure func(error) bool) error {
	if b == nil {
		return fn()
	}
	if err := b.Allow(); err != nil {
		return err
	}

	err := fn()
	if err != nil && (isFailure == nil || isFailure(err)) {
		b.RecordFailure()
		return err
	}
	b.RecordSuccess()
	return err
}

// BreakerGroup keeps one breaker per key, so one failing upstream host does not reject calls to the others.
type BreakerGroup struct {
	cfg CircuitBreakerConfig
	now func() time.Time

	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

func NewBreakerGroup(cfg CircuitBreakerConfig) *BreakerGroup {
	return &BreakerGroup{
		cfg:      NormalizeCircuitBreakerConfig(cfg),
		now:      time.Now,
		breakers: make(map[string]*CircuitBreaker),
	}
}

func (g *BreakerGroup) breaker(key string) *CircuitBreaker {
	g.mu.Lock()
	defer g.mu.Unlock()

	b, ok := g.breakers[key]
	if !ok {
		b = newBreaker(g.cfg, g.now)
		g.breakers[key] = b
	}
	return b
}

// Guard runs fn behind the breaker for key. A nil group runs fn directly.
func (g *BreakerGroup) Guard(key string, fn func() error, isFailure func(error) bool) error {
	if g == nil {
		return fn()
	}
	return g.breaker(key).Guard(fn, isFailure)
}

func (g *BreakerGroup) State(key string) CircuitState {
	if g == nil {
		return CircuitStateClosed
	}
	return g.breaker(key).State()
}
