package resilience

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerConfig tunes a breaker; zero thresholds take the defaults.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

const (
	defaultFailureThreshold = 5
	defaultOpenTimeout      = 15 * time.Second
	defaultHalfOpenMaxReq   = 1
)

func (cfg CircuitBreakerConfig) withDefaults() CircuitBreakerConfig {
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = defaultFailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaultOpenTimeout
	}
	if cfg.HalfOpenMaxReq < 1 {
		cfg.HalfOpenMaxReq = defaultHalfOpenMaxReq
	}
	return cfg
}

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// CircuitBreaker trips after FailureThreshold consecutive failures and lets
// HalfOpenMaxReq probes through once OpenTimeout has elapsed.
type CircuitBreaker struct {
	mu    sync.Mutex
	cfg   CircuitBreakerConfig
	clock clockwork.Clock

	state     CircuitState
	failures  int
	openedAt  time.Time
	inFlight  int
	successes int
}

func NewCircuitBreaker(cfg CircuitBreakerConfig, clock clockwork.Clock) *CircuitBreaker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CircuitBreaker{
		cfg:   cfg.withDefaults(),
		clock: clock,
		state: CircuitStateClosed,
	}
}

// Allow reports ErrCircuitOpen when the call must not reach the dependency.
// A disabled breaker always allows.
func (b *CircuitBreaker) Allow() error {
	if b == nil || !b.cfg.Enabled {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen {
		if b.clock.Since(b.openedAt) < b.cfg.OpenTimeout {
			return ErrCircuitOpen
		}
		b.reset(CircuitStateHalfOpen)
	}

	if b.state == CircuitStateHalfOpen {
		if b.inFlight >= b.cfg.HalfOpenMaxReq {
			return ErrCircuitOpen
		}
		b.inFlight++
	}

	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	if b == nil || !b.cfg.Enabled {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.failures = 0
	case CircuitStateHalfOpen:
		if b.inFlight > 0 {
			b.inFlight--
		}
		b.successes++
		if b.successes >= b.cfg.HalfOpenMaxReq && b.inFlight == 0 {
			b.reset(CircuitStateClosed)
		}
	}
}

func (b *CircuitBreaker) RecordFailure() {
	if b == nil || !b.cfg.Enabled {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.reset(CircuitStateOpen)
		}
	case CircuitStateHalfOpen:
		b.reset(CircuitStateOpen)
	case CircuitStateOpen:
		b.openedAt = b.clock.Now()
	}
}

func (b *CircuitBreaker) State() CircuitState {
	if b == nil || !b.cfg.Enabled {
		return CircuitStateClosed
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.clock.Since(b.openedAt) >= b.cfg.OpenTimeout {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) reset(state CircuitState) {
	b.state = state
	b.failures = 0
	b.inFlight = 0
	b.successes = 0
	b.openedAt = time.Time{}
	if state == CircuitStateOpen {
		b.openedAt = b.clock.Now()
	}
}
