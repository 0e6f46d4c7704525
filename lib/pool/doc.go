// Package pool provides an asynchronous, bounded object pool for expensive
// resources such as network connections.
//
// Unlike a blocking pool, Acquire never parks the calling goroutine: it either
// satisfies the request synchronously from the idle store, or enqueues the
// callback as a waiter and returns a Cancellable handle. Waiters are served
// strictly FIFO; idle objects are reused LIFO so that the warmest object is
// handed out first and the coldest ones age toward the reaper.
//
// The pool supports:
//   - Configurable maximum pool size with reserve-before-create accounting
//   - Idle object expiry driven by a pluggable periodic Scheduler
//   - Validation hooks on both acquire and release
//   - O(1) cancellation of pending acquires
//   - Cooperative shutdown that completes once every object has come home
//
// # Basic Usage
//
//	lc := &connLifecycle{...} // implements pool.Lifecycle[*myConn]
//
//	cfg := pool.DefaultConfig()
//	cfg.Name = "backend"
//	cfg.MaxSize = 10
//	cfg.IdleTimeout = 5 * time.Minute
//
//	p := pool.New(lc, cfg)
//	if err := p.Start(); err != nil {
//	    return err
//	}
//
//	cancel := p.Acquire(func(conn *myConn, err error) {
//	    // use conn, then p.Release(conn)
//	})
//	// cancel is nil when the callback already ran; otherwise cancel.Cancel()
//	// withdraws the request if it has not been served yet.
//
// Callers that prefer blocking acquisition can use AcquireContext, which
// bridges the callback surface to a context-aware call.
//
// # Creation failures
//
// When an object creation fails, every currently queued waiter is failed with
// the creation error instead of being left to time out. Under sustained
// failure (for example a rate-limited backend, see RateLimited) this surfaces
// the real cause to callers immediately.
//
// # Metrics
//
// Pool utilization metrics are registered with the metrics package:
//   - connpool_objects_max: Maximum pool size
//   - connpool_objects_total: Objects the pool is responsible for
//   - connpool_objects_idle: Objects currently idle
//   - connpool_objects_outstanding: Objects checked out or in flight
//   - connpool_waiters: Acquires currently waiting
//   - connpool_acquire_duration_seconds: Time spent acquiring an object
package pool
