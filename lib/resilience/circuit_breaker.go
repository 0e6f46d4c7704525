// Package resilience provides the circuit breaker guarding object creation.
//
// The circuit breaker pattern prevents cascading failures by detecting when
// the backend a pool dials is unhealthy and temporarily failing creations
// fast so the backend can recover.
//
// State transitions:
//
//	Closed (normal) -> Open (failing) -> HalfOpen (testing) -> Closed
//	                     ^                    |
//	                     +--------------------+ (if test fails)
package resilience

import (
	"sync"
	"time"
)

// CircuitState represents the state of the circuit breaker.
type CircuitState int

const (
	// CircuitClosed is the normal operating state - requests pass through.
	CircuitClosed CircuitState = iota
	// CircuitOpen means the circuit is tripped - requests fail immediately.
	CircuitOpen
	// CircuitHalfOpen means the circuit is testing if the service recovered.
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker behavior.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive failures before opening
	// the circuit.
	FailureThreshold int
	// SuccessThreshold is the number of successes in half-open state
	// before closing the circuit.
	SuccessThreshold int
	// Timeout is the duration to wait before transitioning from open to half-open.
	Timeout time.Duration
	// MaxHalfOpenRequests is the maximum number of probe requests allowed
	// while half-open.
	MaxHalfOpenRequests int
}

// DefaultCircuitBreakerConfig returns sensible defaults for dial operations.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold:    5,
		SuccessThreshold:    2,
		Timeout:             30 * time.Second,
		MaxHalfOpenRequests: 3,
	}
}

// CircuitBreaker implements the circuit breaker pattern.
type CircuitBreaker struct {
	mu     sync.Mutex
	config CircuitBreakerConfig
	name   string

	state                CircuitState
	failureCount         int
	successCount         int
	halfOpenRequestCount int
	openedAt             time.Time
}

// NewCircuitBreaker creates a new circuit breaker with the given configuration.
func NewCircuitBreaker(name string, cfg CircuitBreakerConfig) *CircuitBreaker {
	defaults := DefaultCircuitBreakerConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = defaults.SuccessThreshold
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.MaxHalfOpenRequests <= 0 {
		cfg.MaxHalfOpenRequests = defaults.MaxHalfOpenRequests
	}
	return &CircuitBreaker{
		config: cfg,
		name:   name,
		state:  CircuitClosed,
	}
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.maybeHalfOpenLocked()
	return cb.state
}

// Allow checks if a request should be allowed.
// Returns true if the request can proceed, false if it should be rejected.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.maybeHalfOpenLocked()

	switch cb.state {
	case CircuitClosed:
		return true
	case CircuitHalfOpen:
		if cb.halfOpenRequestCount >= cb.config.MaxHalfOpenRequests {
			return false
		}
		cb.halfOpenRequestCount++
		return true
	default:
		return false
	}
}

// RecordSuccess records a successful operation.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.maybeHalfOpenLocked()
	switch cb.state {
	case CircuitClosed:
		cb.failureCount = 0
	case CircuitHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.config.SuccessThreshold {
			cb.transitionLocked(CircuitClosed)
		}
	}
}

// RecordFailure records a failed operation.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.maybeHalfOpenLocked()
	switch cb.state {
	case CircuitClosed:
		cb.failureCount++
		if cb.failureCount >= cb.config.FailureThreshold {
			cb.transitionLocked(CircuitOpen)
		}
	case CircuitHalfOpen:
		// A failed probe reopens the circuit.
		cb.transitionLocked(CircuitOpen)
	}
}

// Execute runs fn through the breaker, recording the outcome.
// Returns ErrCircuitOpen without calling fn when the circuit rejects it.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.Allow() {
		CircuitBreakerRejections.Inc()
		return ErrCircuitOpen
	}
	if err := fn(); err != nil {
		cb.RecordFailure()
		return err
	}
	cb.RecordSuccess()
	return nil
}

// maybeHalfOpenLocked transitions open -> half-open once the cool-down has
// elapsed. Must be called with the lock held.
func (cb *CircuitBreaker) maybeHalfOpenLocked() {
	if cb.state == CircuitOpen && time.Since(cb.openedAt) >= cb.config.Timeout {
		cb.transitionLocked(CircuitHalfOpen)
	}
}

func (cb *CircuitBreaker) transitionLocked(to CircuitState) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to
	cb.failureCount = 0
	cb.successCount = 0
	cb.halfOpenRequestCount = 0
	CircuitBreakerState.Set(int64(to))
	if to == CircuitOpen {
		cb.openedAt = time.Now()
		CircuitBreakerTrips.Inc()
	}
	log.WithField("breaker", cb.name).
		WithField("from", from.String()).
		WithField("to", to.String()).
		Debug("circuit breaker state change")
}
