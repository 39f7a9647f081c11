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

// CircuitBreaker trips after a run of consecutive failures and, once the
// open window elapses, admits a bounded number of probe requests before
// closing again. A single probe failure re-opens the circuit.
type CircuitBreaker struct {
	mu sync.Mutex

	failureThreshold int
	openTimeout      time.Duration
	probeQuota       int

	state        CircuitState
	failStreak   int
	openedAt     time.Time
	probesActive int
	probesPassed int
	clock        func() time.Time
}

func NewCircuitBreaker(failureThreshold int, openTimeout time.Duration, probeQuota int) *CircuitBreaker {
	if failureThreshold < 1 {
		failureThreshold = 1
	}
	if openTimeout <= 0 {
		openTimeout = 15 * time.Second
	}
	if probeQuota < 1 {
		probeQuota = 1
	}
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		openTimeout:      openTimeout,
		probeQuota:       probeQuota,
		state:            CircuitStateClosed,
		clock:            time.Now,
	}
}

// Allow reports whether a request may proceed, reserving a probe slot when
// the breaker is half open.
func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen {
		if b.clock().Sub(b.openedAt) < b.openTimeout {
			return ErrCircuitOpen
		}
		b.transition(CircuitStateHalfOpen)
	}

	if b.state == CircuitStateHalfOpen {
		if b.probesActive >= b.probeQuota {
			return ErrCircuitOpen
		}
		b.probesActive++
	}
	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.failStreak = 0
	case CircuitStateHalfOpen:
		b.releaseProbe()
		b.probesPassed++
		if b.probesPassed >= b.probeQuota && b.probesActive == 0 {
			b.transition(CircuitStateClosed)
		}
	}
}

func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.failStreak++
		if b.failStreak >= b.failureThreshold {
			b.transition(CircuitStateOpen)
		}
	case CircuitStateHalfOpen:
		b.releaseProbe()
		b.transition(CircuitStateOpen)
	case CircuitStateOpen:
		// Failures while open push the re-probe window out.
		b.openedAt = b.clock()
	}
}

// State reports the effective state: an open breaker whose window has
// elapsed reads as half open even before the next Allow call.
func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.clock().Sub(b.openedAt) >= b.openTimeout {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) releaseProbe() {
	if b.probesActive > 0 {
		b.probesActive--
	}
}

func (b *CircuitBreaker) transition(next CircuitState) {
	b.state = next
	b.probesActive = 0
	b.probesPassed = 0
	switch next {
	case CircuitStateClosed:
		b.failStreak = 0
		b.openedAt = time.Time{}
	case CircuitStateOpen:
		b.openedAt = b.clock()
	}
}
