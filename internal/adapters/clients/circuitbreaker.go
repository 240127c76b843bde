package clients

import (
	"sync"
	"time"
)

// State is the circuit breaker position.
type State int

const (
	// StateClosed lets every request through.
	StateClosed State = iota

	// StateOpen rejects requests until the cool-down elapses.
	StateOpen

	// StateHalfOpen lets a limited number of trial requests through.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

const (
	defaultMaxFailures   = 5
	defaultOpenTimeout   = 30 * time.Second
	defaultHalfOpenLimit = 1
)

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// MaxFailures is the number of consecutive failures that opens the circuit.
	MaxFailures int

	// Timeout is the cool-down spent open before probing.
	Timeout time.Duration

	// HalfOpenLimit is both the number of concurrent trial requests and the number
	// of trial successes needed to close again.
	HalfOpenLimit int
}

func (c CircuitBreakerConfig) withDefaults() CircuitBreakerConfig {
	if c.MaxFailures <= 0 {
		c.MaxFailures = defaultMaxFailures
	}

	if c.Timeout <= 0 {
		c.Timeout = defaultOpenTimeout
	}

	if c.HalfOpenLimit <= 0 {
		c.HalfOpenLimit = defaultHalfOpenLimit
	}

	return c
}

// Counts is a point-in-time view of the breaker.
type Counts struct {
	State               State
	ConsecutiveFailures int
	TrialSuccesses      int
	TrialsInFlight      int
	OpenedAt            time.Time
}

// CircuitBreaker stops calling a downstream that keeps failing.
//
//	closed    --MaxFailures consecutive failures-->  open
//	open      --Timeout elapsed, next Allow-->       half-open
//	half-open --HalfOpenLimit successes-->           closed
//	half-open --any failure-->                       open
//
// The photo and quote services are called at most once per refresh, so a
// tripped breaker turns a dead downstream into an immediate fallback.
type CircuitBreaker struct {
	mu       sync.Mutex
	cfg      CircuitBreakerConfig
	counts   Counts
	listener func(from, to State)
	now      func() time.Time
}

// NewCircuitBreaker creates a closed circuit breaker. Zero config values
// fall back to defaults.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		cfg: cfg.withDefaults(),
		now: time.Now,
	}
}

// OnStateChange registers a listener for state transitions. The listener
// runs on its own goroutine.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.listener = fn
}

// Allow reports whether a request may proceed. A true result from the
// half-open state reserves a trial slot that RecordSuccess or
// RecordFailure releases.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.counts.State {
	case StateClosed:
		return true
	case StateOpen:
		if cb.now().Sub(cb.counts.OpenedAt) < cb.cfg.Timeout {
			return false
		}

		cb.setState(StateHalfOpen)
		cb.counts.TrialsInFlight = 1

		return true
	case StateHalfOpen:
		if cb.counts.TrialsInFlight >= cb.cfg.HalfOpenLimit {
			return false
		}

		cb.counts.TrialsInFlight++

		return true
	}

	return false
}

// RecordSuccess reports a request that reached the downstream and got a
// usable answer.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.counts.State {
	case StateClosed:
		cb.counts.ConsecutiveFailures = 0
	case StateHalfOpen:
		cb.releaseTrial()
		cb.counts.TrialSuccesses++

		if cb.counts.TrialSuccesses >= cb.cfg.HalfOpenLimit {
			cb.setState(StateClosed)
		}
	case StateOpen:
	}
}

// RecordFailure reports a failed request.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.counts.State {
	case StateClosed:
		cb.counts.ConsecutiveFailures++

		if cb.counts.ConsecutiveFailures >= cb.cfg.MaxFailures {
			cb.setState(StateOpen)
		}
	case StateHalfOpen:
		cb.releaseTrial()
		cb.setState(StateOpen)
	case StateOpen:
		cb.counts.OpenedAt = cb.now()
	}
}

// State returns the current state.
func (cb *CircuitBreaker) State() State {
	return cb.Counts().State
}

// Counts returns a snapshot of the breaker counters.
func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.counts
}

func (cb *CircuitBreaker) releaseTrial() {
	if cb.counts.TrialsInFlight > 0 {
		cb.counts.TrialsInFlight--
	}
}

// setState must be called with mu held.
func (cb *CircuitBreaker) setState(to State) {
	from := cb.counts.State
	if from == to {
		return
	}

	inFlight := cb.counts.TrialsInFlight
	cb.counts = Counts{State: to}

	switch to {
	case StateOpen:
		cb.counts.OpenedAt = cb.now()
	case StateHalfOpen:
		cb.counts.TrialsInFlight = inFlight
	case StateClosed:
	}

	if cb.listener != nil {
		go cb.listener(from, to)
	}
}
