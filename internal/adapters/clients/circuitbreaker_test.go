package clients

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func newTestBreaker(cfg CircuitBreakerConfig) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	cb := NewCircuitBreaker(cfg)
	cb.now = clock.Now

	return cb, clock
}

func TestCircuitBreaker_StartsClosed(t *testing.T) {
	cb, _ := newTestBreaker(CircuitBreakerConfig{MaxFailures: 2})

	assert.Equal(t, StateClosed, cb.State())
	assert.True(t, cb.Allow())
}

func TestCircuitBreaker_Defaults(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{})

	assert.Equal(t, defaultMaxFailures, cb.cfg.MaxFailures)
	assert.Equal(t, defaultOpenTimeout, cb.cfg.Timeout)
	assert.Equal(t, defaultHalfOpenLimit, cb.cfg.HalfOpenLimit)
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cb, _ := newTestBreaker(CircuitBreakerConfig{MaxFailures: 3, Timeout: time.Minute})

	cb.RecordFailure()
	cb.RecordFailure()
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, 2, cb.Counts().ConsecutiveFailures)

	cb.RecordFailure()
	assert.Equal(t, StateOpen, cb.State())
	assert.False(t, cb.Allow())
}

func TestCircuitBreaker_SuccessResetsFailureStreak(t *testing.T) {
	cb, _ := newTestBreaker(CircuitBreakerConfig{MaxFailures: 2, Timeout: time.Minute})

	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()

	assert.Equal(t, StateClosed, cb.State())

	cb.RecordFailure()
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_TrialsAfterCoolDown(t *testing.T) {
	cb, clock := newTestBreaker(CircuitBreakerConfig{MaxFailures: 1, Timeout: time.Second, HalfOpenLimit: 1})

	cb.RecordFailure()
	require.Equal(t, StateOpen, cb.State())

	clock.Advance(500 * time.Millisecond)
	assert.False(t, cb.Allow())

	clock.Advance(500 * time.Millisecond)
	assert.True(t, cb.Allow())
	assert.Equal(t, StateHalfOpen, cb.State())

	// The single trial slot is taken.
	assert.False(t, cb.Allow())
}

func TestCircuitBreaker_HalfOpenClosesAfterEnoughSuccesses(t *testing.T) {
	cb, clock := newTestBreaker(CircuitBreakerConfig{MaxFailures: 1, Timeout: time.Second, HalfOpenLimit: 2})

	cb.RecordFailure()
	clock.Advance(time.Second)

	require.True(t, cb.Allow())
	require.True(t, cb.Allow())
	assert.False(t, cb.Allow())

	cb.RecordSuccess()
	assert.Equal(t, StateHalfOpen, cb.State())
	assert.Equal(t, 1, cb.Counts().TrialsInFlight)

	cb.RecordSuccess()
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, Counts{State: StateClosed}, cb.Counts())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb, clock := newTestBreaker(CircuitBreakerConfig{MaxFailures: 1, Timeout: time.Second, HalfOpenLimit: 2})

	cb.RecordFailure()
	clock.Advance(time.Second)
	require.True(t, cb.Allow())

	cb.RecordFailure()

	assert.Equal(t, StateOpen, cb.State())
	assert.Equal(t, clock.Now(), cb.Counts().OpenedAt)
	assert.False(t, cb.Allow())
}

func TestCircuitBreaker_NotifiesListener(t *testing.T) {
	cb, _ := newTestBreaker(CircuitBreakerConfig{MaxFailures: 1, Timeout: time.Minute})

	type transition struct{ from, to State }

	got := make(chan transition, 1)
	cb.OnStateChange(func(from, to State) {
		got <- transition{from, to}
	})

	cb.RecordFailure()

	select {
	case tr := <-got:
		assert.Equal(t, transition{StateClosed, StateOpen}, tr)
	case <-time.After(time.Second):
		t.Fatal("listener was not called")
	}
}

func TestCircuitBreaker_ConcurrentUse(t *testing.T) {
	cb, _ := newTestBreaker(CircuitBreakerConfig{MaxFailures: 1000, Timeout: time.Minute})

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if cb.Allow() {
				if i%2 == 0 {
					cb.RecordSuccess()
				} else {
					cb.RecordFailure()
				}
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, StateClosed, cb.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", State(42).String())
}
