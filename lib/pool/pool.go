package pool

import (
	"sync"
	"time"

	"github.com/go-i2p/logger"

	apperrors "github.com/go-i2p/connpool/lib/errors"
)

var log = logger.GetGoI2PLogger()

// State is the pool lifecycle state.
type State int

const (
	// StateNotStarted is the initial state; only Start is accepted.
	StateNotStarted State = iota
	// StateRunning accepts acquires and releases.
	StateRunning
	// StateShuttingDown waits for outstanding objects to come home.
	StateShuttingDown
	// StateStopped is terminal.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting down"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Config configures a pool.
type Config struct {
	// Name identifies the pool in logs, errors and metrics.
	// Default: "pool"
	Name string
	// MaxSize bounds the number of objects the pool is responsible for:
	// idle, checked out, and creations/destructions in flight.
	// Default: 10
	MaxSize int
	// IdleTimeout is how long an object may sit idle before the reaper
	// destroys it. 0 disables idle expiry.
	IdleTimeout time.Duration
	// Scheduler drives the idle reaper. Defaults to DefaultScheduler.
	Scheduler Scheduler
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Name:    "pool",
		MaxSize: 10,
	}
}

// Pool is an asynchronous, bounded object pool over a Lifecycle.
type Pool[T any] struct {
	name        string
	lifecycle   Lifecycle[T]
	maxSize     int
	idleTimeout time.Duration
	scheduler   Scheduler

	// All fields below are guarded by mu.
	// Never invoke caller-supplied code (callbacks, Lifecycle operations)
	// while holding mu.
	mu            sync.Mutex
	state         State
	poolSize      int // idle + checked out + creations/destructions in flight
	idle          idleStore[T]
	waiters       waiterQueue[T]
	lastCreateErr error
	shutdownCB    func(error)
	reaper        Cancellable

	// Statistics only
	totalCreated   int
	totalDestroyed int
	createErrors   int
	destroyErrors  int
}

// New creates a pool over the given lifecycle. The pool accepts no work
// until Start is called.
func New[T any](lc Lifecycle[T], cfg Config) *Pool[T] {
	if cfg.Name == "" {
		cfg.Name = "pool"
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 10
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = DefaultScheduler
	}
	return &Pool[T]{
		name:        cfg.Name,
		lifecycle:   lc,
		maxSize:     cfg.MaxSize,
		idleTimeout: cfg.IdleTimeout,
		scheduler:   cfg.Scheduler,
	}
}

// Name returns the pool name.
func (p *Pool[T]) Name() string {
	return p.name
}

// State returns the current lifecycle state.
func (p *Pool[T]) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Start transitions the pool to running and, when idle expiry is enabled,
// schedules the reaper at min(IdleTimeout/10, 1s).
func (p *Pool[T]) Start() error {
	p.mu.Lock()
	if p.state != StateNotStarted {
		st := p.state
		p.mu.Unlock()
		return apperrors.InvalidState(p.name, st.String())
	}
	p.state = StateRunning
	if p.idleTimeout > 0 {
		period := p.idleTimeout / 10
		if period > time.Second {
			period = time.Second
		}
		p.reaper = p.scheduler.Schedule(p.reapIdle, period, period)
	}
	p.mu.Unlock()

	log.WithField("pool", p.name).WithField("maxSize", p.maxSize).Debug("pool started")
	return nil
}

// Shutdown begins a cooperative shutdown. cb fires with nil once no waiter is
// queued and every object the pool is responsible for has returned to the
// idle store; it fires immediately with an invalid-state error if the pool is
// not running. Holders of checked-out objects must Release or Discard them
// for shutdown to complete.
func (p *Pool[T]) Shutdown(cb func(error)) {
	p.mu.Lock()
	st := p.state
	if st == StateRunning {
		p.state = StateShuttingDown
		p.shutdownCB = cb
	}
	p.mu.Unlock()

	if st != StateRunning {
		// State retested outside the lock so the callback runs unlocked.
		cb(apperrors.InvalidState(p.name, st.String()))
		return
	}
	log.WithField("pool", p.name).Info("shutdown requested")
	p.shutdownIfNeeded()
}

// Acquire requests an object. If a valid idle object is available the
// callback runs before Acquire returns and the result is nil. Otherwise the
// callback is queued as a waiter and Acquire returns a Cancellable that
// withdraws it; Cancel returns false once the waiter has been served.
// Exactly one of the two happens per call.
func (p *Pool[T]) Acquire(cb Callback[T]) Cancellable {
	// The acquire must pop-or-enqueue atomically with the empty check, and
	// may need several rounds when idle objects fail validation.
	var node *waiterNode[T]
	create := false
	for {
		var obj T
		var found bool
		p.mu.Lock()
		st := p.state
		if st == StateRunning {
			obj, found = p.idle.popNewest()
			if !found {
				node = p.waiters.pushBack(cb)
				create = p.shouldCreateLocked()
				p.mu.Unlock()
				break
			}
		}
		p.mu.Unlock()

		if st != StateRunning {
			var zero T
			cb(zero, apperrors.InvalidState(p.name, st.String()))
			return nil
		}
		if p.lifecycle.ValidateGet(obj) {
			p.trace("dequeued an idle object")
			cb(obj, nil)
			return nil
		}
		p.destroy(obj, true)
		p.trace("dequeued and disposed an invalid idle object")
	}
	p.trace("enqueued a waiter")
	if create {
		p.create()
	}
	return &waiterCancel[T]{pool: p, node: node}
}

// waiterCancel removes its waiter from the queue if still pending.
type waiterCancel[T any] struct {
	pool *Pool[T]
	node *waiterNode[T]
}

func (c *waiterCancel[T]) Cancel() bool {
	c.pool.mu.Lock()
	removed := c.pool.waiters.remove(c.node)
	c.pool.mu.Unlock()
	return removed
}

// Release returns an object to the pool. Objects failing release validation
// are destroyed instead of being kept.
func (p *Pool[T]) Release(obj T) {
	if !p.lifecycle.ValidatePut(obj) {
		p.destroy(obj, true)
		return
	}
	p.add(obj)
}

// Discard removes an object from the pool without validation. Use this when
// the object is known to be unusable.
func (p *Pool[T]) Discard(obj T) {
	p.destroy(obj, true)
}

// CancelWaiters atomically removes every queued waiter and returns their
// callbacks, oldest first, for the caller to fail at its discretion.
func (p *Pool[T]) CancelWaiters() []Callback[T] {
	p.mu.Lock()
	cancelled := p.waiters.drain()
	p.mu.Unlock()
	return cancelled
}

// add hands an object to the oldest waiter, or stores it idle when nobody is
// waiting. Newly created objects and released objects both come through here.
func (p *Pool[T]) add(obj T) {
	p.mu.Lock()
	waiter, served := p.waiters.popFront()
	if !served {
		p.idle.push(obj, time.Now())
	}
	shutdown := p.checkShutdownCompleteLocked()
	p.mu.Unlock()

	if served {
		p.trace("dequeued a waiter")
		waiter(obj, nil)
	} else {
		p.trace("enqueued an idle object")
	}
	if shutdown != nil {
		p.finishShutdown(shutdown)
	}
}

// shouldCreateLocked decides whether a new creation should start and, if so,
// reserves capacity for it before the lock is released. Must be called with
// mu held; must not invoke user code.
func (p *Pool[T]) shouldCreateLocked() bool {
	if p.state != StateRunning {
		return false
	}
	if p.poolSize >= p.maxSize {
		// With the pool full, the next failure a waiter sees is not
		// attributable to any earlier creation error.
		p.lastCreateErr = nil
		return false
	}
	if p.waiters.len() == 0 {
		return false
	}
	p.poolSize++
	return true
}

// create starts an asynchronous creation. Capacity must already have been
// reserved by shouldCreateLocked. Never call with mu held.
func (p *Pool[T]) create() {
	p.trace("initiating object creation")
	p.lifecycle.Create(func(obj T, err error) {
		if err == nil {
			p.mu.Lock()
			p.totalCreated++
			p.lastCreateErr = nil
			p.mu.Unlock()
			CreatedTotal.Inc()
			p.add(obj)
			return
		}

		CreateErrorsTotal.Inc()
		p.mu.Lock()
		p.createErrors++
		p.lastCreateErr = err
		p.poolSize--
		// Fail every queued waiter with the real cause rather than leave
		// them to collect an uninformative timeout while creations keep
		// failing (e.g. against a rate-limited backend).
		denied := p.waiters.drain()
		create := p.shouldCreateLocked()
		shutdown := p.checkShutdownCompleteLocked()
		p.mu.Unlock()

		failure := apperrors.Wrap(apperrors.CodeCreate, p.name+": object creation failed", err)
		var zero T
		for _, waiter := range denied {
			waiter(zero, failure)
		}
		if create {
			p.create()
		}
		if shutdown != nil {
			p.finishShutdown(shutdown)
		}
		log.WithError(err).WithField("pool", p.name).Error("object creation failed")
	})
}

// destroy starts an asynchronous destruction. Destruction failures are
// recorded but never surface to callers; the object is abandoned either way.
func (p *Pool[T]) destroy(obj T, bad bool) {
	p.trace("disposing a pooled object")
	p.lifecycle.Destroy(obj, bad, func(_ T, err error) {
		p.mu.Lock()
		if err != nil {
			p.destroyErrors++
		} else {
			p.totalDestroyed++
			DestroyedTotal.Inc()
		}
		p.poolSize--
		create := p.shouldCreateLocked()
		shutdown := p.checkShutdownCompleteLocked()
		p.mu.Unlock()

		if err != nil {
			log.WithError(err).WithField("pool", p.name).Warn("object destruction failed")
		}
		if create {
			p.create()
		}
		if shutdown != nil {
			p.finishShutdown(shutdown)
		}
	})
}

// reapIdle destroys idle objects older than IdleTimeout. Runs on the
// scheduler goroutine.
func (p *Pool[T]) reapIdle() {
	cutoff := time.Now().Add(-p.idleTimeout)
	p.mu.Lock()
	expired := p.idle.expire(cutoff)
	p.mu.Unlock()

	if len(expired) == 0 {
		return
	}
	log.WithField("pool", p.name).WithField("count", len(expired)).Debug("disposing objects due to idle timeout")
	for _, obj := range expired {
		p.destroy(obj, false)
	}
}

func (p *Pool[T]) shutdownIfNeeded() {
	p.mu.Lock()
	shutdown := p.checkShutdownCompleteLocked()
	p.mu.Unlock()
	if shutdown != nil {
		p.finishShutdown(shutdown)
	}
}

// checkShutdownCompleteLocked transitions to Stopped once the pool has fully
// drained: no waiters, and every object the pool is responsible for is back
// in the idle store. Returns the shutdown callback to fire, or nil. Must be
// called with mu held after every event that can change queue occupancy.
func (p *Pool[T]) checkShutdownCompleteLocked() func(error) {
	if p.state != StateShuttingDown {
		return nil
	}
	if p.waiters.len() > 0 || p.idle.len() != p.poolSize {
		log.WithField("pool", p.name).
			WithField("waiters", p.waiters.len()).
			WithField("outstanding", p.poolSize-p.idle.len()).
			Debug("waiting for pool to drain")
		return nil
	}
	p.state = StateStopped
	done := p.shutdownCB
	p.shutdownCB = nil
	return done
}

func (p *Pool[T]) finishShutdown(done func(error)) {
	p.mu.Lock()
	reaper := p.reaper
	p.reaper = nil
	p.mu.Unlock()
	if reaper != nil {
		reaper.Cancel()
	}
	log.WithField("pool", p.name).Info("shutdown complete")
	done(nil)
}

func (p *Pool[T]) trace(msg string) {
	log.WithField("pool", p.name).Debug(msg)
}
