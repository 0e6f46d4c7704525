package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreakerStartsClosed(t *testing.T) {
	cb := NewCircuitBreaker("test", DefaultCircuitBreakerConfig())

	if cb.State() != CircuitClosed {
		t.Errorf("expected closed, got %v", cb.State())
	}
	if !cb.Allow() {
		t.Error("closed circuit should allow requests")
	}
}

func TestCircuitBreakerOpensAfterFailures(t *testing.T) {
	cb := NewCircuitBreaker("test", CircuitBreakerConfig{
		FailureThreshold: 3,
		Timeout:          time.Minute,
	})

	cb.RecordFailure()
	cb.RecordFailure()
	if cb.State() != CircuitClosed {
		t.Error("circuit should stay closed under the threshold")
	}

	cb.RecordFailure()
	if cb.State() != CircuitOpen {
		t.Errorf("expected open after 3 failures, got %v", cb.State())
	}
	if cb.Allow() {
		t.Error("open circuit should reject requests")
	}
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker("test", CircuitBreakerConfig{
		FailureThreshold: 3,
		Timeout:          time.Minute,
	})

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()
	cb.RecordFailure()

	if cb.State() != CircuitClosed {
		t.Error("success should reset the consecutive failure count")
	}
}

func TestCircuitBreakerHalfOpenAfterTimeout(t *testing.T) {
	cb := NewCircuitBreaker("test", CircuitBreakerConfig{
		FailureThreshold:    1,
		SuccessThreshold:    2,
		Timeout:             20 * time.Millisecond,
		MaxHalfOpenRequests: 2,
	})

	cb.RecordFailure()
	if cb.State() != CircuitOpen {
		t.Fatal("expected open")
	}

	time.Sleep(30 * time.Millisecond)

	if cb.State() != CircuitHalfOpen {
		t.Fatalf("expected half-open after timeout, got %v", cb.State())
	}

	// Probe budget is bounded.
	if !cb.Allow() || !cb.Allow() {
		t.Error("half-open circuit should allow probe requests")
	}
	if cb.Allow() {
		t.Error("half-open circuit should bound probe requests")
	}
}

func TestCircuitBreakerClosesAfterSuccesses(t *testing.T) {
	cb := NewCircuitBreaker("test", CircuitBreakerConfig{
		FailureThreshold:    1,
		SuccessThreshold:    2,
		Timeout:             10 * time.Millisecond,
		MaxHalfOpenRequests: 5,
	})

	cb.RecordFailure()
	time.Sleep(20 * time.Millisecond)

	cb.Allow()
	cb.RecordSuccess()
	cb.Allow()
	cb.RecordSuccess()

	if cb.State() != CircuitClosed {
		t.Errorf("expected closed after successful probes, got %v", cb.State())
	}
}

func TestCircuitBreakerReopensOnHalfOpenFailure(t *testing.T) {
	cb := NewCircuitBreaker("test", CircuitBreakerConfig{
		FailureThreshold: 1,
		Timeout:          10 * time.Millisecond,
	})

	cb.RecordFailure()
	time.Sleep(20 * time.Millisecond)

	if cb.State() != CircuitHalfOpen {
		t.Fatal("expected half-open")
	}
	cb.RecordFailure()
	if cb.State() != CircuitOpen {
		t.Errorf("failed probe should reopen the circuit, got %v", cb.State())
	}
}

func TestCircuitBreakerExecute(t *testing.T) {
	cb := NewCircuitBreaker("test", CircuitBreakerConfig{
		FailureThreshold: 2,
		Timeout:          time.Minute,
	})

	boom := errors.New("boom")
	if err := cb.Execute(func() error { return boom }); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if err := cb.Execute(func() error { return boom }); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}

	// Circuit is now open; fn must not run.
	ran := false
	err := cb.Execute(func() error { ran = true; return nil })
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
	if ran {
		t.Error("fn should not run while the circuit is open")
	}
}
