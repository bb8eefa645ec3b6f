package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned when the breaker refuses a call without executing it.
var ErrOpen = errors.New("circuit breaker is open")

type Settings struct {
	Name        string
	MaxFailures int
	Timeout     time.Duration
}

// CircuitBreaker is a minimal three-state breaker. It trips open after
// MaxFailures consecutive failures and allows a probe call after Timeout.
type CircuitBreaker struct {
	name        string
	maxFailures int
	timeout     time.Duration
	failures    int
	lastFailure time.Time
	state       string
	mu          sync.Mutex
}

func NewCircuitBreaker(settings Settings) *CircuitBreaker {
	return &CircuitBreaker{
		name:        settings.Name,
		maxFailures: settings.MaxFailures,
		timeout:     settings.Timeout,
		state:       "closed",
	}
}

func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	if cb.state == "open" {
		if time.Since(cb.lastFailure) > cb.timeout {
			cb.state = "half-open"
		} else {
			cb.mu.Unlock()
			return ErrOpen
		}
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.failures++
		cb.lastFailure = time.Now()
		if cb.failures >= cb.maxFailures {
			cb.state = "open"
		}
		return err
	}

	cb.state = "closed"
	cb.failures = 0
	return nil
}

// State returns the current breaker state.
func (cb *CircuitBreaker) State() string {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
