package resilience

import (
	"github.com/go-i2p/connpool/lib/metrics"
)

// Circuit breaker metrics for Prometheus exposition.
var (
	// CircuitBreakerState tracks the current state of the circuit breaker.
	// 0 = closed, 1 = open, 2 = half-open
	CircuitBreakerState = metrics.NewGauge(
		"connpool_circuit_breaker_state",
		"Current state of the circuit breaker (0=closed, 1=open, 2=half-open)",
	)

	// CircuitBreakerTrips counts the number of times circuits have opened.
	CircuitBreakerTrips = metrics.NewCounter(
		"connpool_circuit_breaker_trips_total",
		"Total number of times the circuit breaker has opened",
	)

	// CircuitBreakerRejections counts creations rejected by open circuits.
	CircuitBreakerRejections = metrics.NewCounter(
		"connpool_circuit_breaker_rejections_total",
		"Total creations rejected by an open circuit breaker",
	)
)
