package pool

import "github.com/go-i2p/connpool/lib/metrics"

// Pool utilization metrics
var (
	// ObjectsMax is the configured capacity bound.
	ObjectsMax = metrics.NewGauge(
		"connpool_objects_max",
		"Maximum number of objects in the pool",
	)
	// ObjectsTotal counts every object the pool is responsible for.
	ObjectsTotal = metrics.NewGauge(
		"connpool_objects_total",
		"Objects the pool is responsible for (idle, checked out, in flight)",
	)
	// ObjectsIdle is the number of objects currently idle.
	ObjectsIdle = metrics.NewGauge(
		"connpool_objects_idle",
		"Objects currently idle in the pool",
	)
	// ObjectsOutstanding is the number of objects checked out or in flight.
	ObjectsOutstanding = metrics.NewGauge(
		"connpool_objects_outstanding",
		"Objects currently checked out or in flight",
	)
	// Waiters is the number of acquires currently waiting.
	Waiters = metrics.NewGauge(
		"connpool_waiters",
		"Acquires currently waiting for an object",
	)
	// CreatedTotal is the number of successful object creations.
	CreatedTotal = metrics.NewCounter(
		"connpool_created_total",
		"Total successful object creations",
	)
	// DestroyedTotal is the number of completed object destructions.
	DestroyedTotal = metrics.NewCounter(
		"connpool_destroyed_total",
		"Total completed object destructions",
	)
	// CreateErrorsTotal is the number of failed creation attempts.
	CreateErrorsTotal = metrics.NewCounter(
		"connpool_create_errors_total",
		"Total failed object creation attempts",
	)
	// AcquireLatency tracks time spent acquiring objects.
	AcquireLatency = metrics.NewHistogram(
		"connpool_acquire_duration_seconds",
		"Time spent acquiring an object from the pool",
		metrics.DefaultLatencyBuckets,
	)
)

// UpdateMetrics publishes a Stats snapshot to the utilization gauges.
func UpdateMetrics(stats Stats) {
	ObjectsMax.Set(int64(stats.MaxSize))
	ObjectsTotal.Set(int64(stats.PoolSize))
	ObjectsIdle.Set(int64(stats.IdleCount))
	ObjectsOutstanding.Set(int64(stats.OutstandingCount))
	Waiters.Set(int64(stats.WaiterCount))
}
