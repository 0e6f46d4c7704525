package transport

import (
	"time"

	apperrors "github.com/go-i2p/connpool/lib/errors"
	"github.com/go-i2p/connpool/lib/pool"
	"github.com/go-i2p/connpool/lib/resilience"
)

// ConnLifecycle adapts a Dialer to pool.Lifecycle[*Conn]. Creation and
// destruction run on their own goroutines so the pool's callback contract
// holds regardless of how slow the dial is.
type ConnLifecycle struct {
	dialer     Dialer
	breaker    *resilience.CircuitBreaker
	maxConnAge time.Duration
}

// LifecycleOption configures a ConnLifecycle.
type LifecycleOption func(*ConnLifecycle)

// WithMaxConnAge rejects connections older than maxAge at acquire time, so
// long-lived connections get rotated even when the backend never drops them.
func WithMaxConnAge(maxAge time.Duration) LifecycleOption {
	return func(l *ConnLifecycle) {
		l.maxConnAge = maxAge
	}
}

// WithBreaker guards dialing with a circuit breaker: once the backend looks
// down, creations fail fast with ErrCircuitOpen until the cool-down elapses.
func WithBreaker(cb *resilience.CircuitBreaker) LifecycleOption {
	return func(l *ConnLifecycle) {
		l.breaker = cb
	}
}

// NewConnLifecycle creates a lifecycle over the given dialer.
func NewConnLifecycle(d Dialer, opts ...LifecycleOption) *ConnLifecycle {
	l := &ConnLifecycle{dialer: d}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *ConnLifecycle) Create(cb pool.Callback[*Conn]) {
	go func() {
		if l.breaker != nil && !l.breaker.Allow() {
			resilience.CircuitBreakerRejections.Inc()
			cb(nil, apperrors.Wrap(apperrors.CodeCircuitOpen, "dial suppressed", apperrors.ErrCircuitOpen))
			return
		}
		raw, err := l.dialer.Dial()
		if err != nil {
			if l.breaker != nil {
				l.breaker.RecordFailure()
			}
			cb(nil, err)
			return
		}
		if l.breaker != nil {
			l.breaker.RecordSuccess()
		}
		cb(newConn(raw), nil)
	}()
}

func (l *ConnLifecycle) Destroy(c *Conn, bad bool, cb pool.Callback[*Conn]) {
	go func() {
		if err := c.Close(); err != nil {
			cb(c, apperrors.Wrap(apperrors.CodeDestroy, "close failed", err))
			return
		}
		cb(c, nil)
	}()
}

// ValidateGet rejects closed connections and, when rotation is configured,
// connections past their maximum age.
func (l *ConnLifecycle) ValidateGet(c *Conn) bool {
	if c == nil || c.Closed() {
		return false
	}
	if l.maxConnAge > 0 && c.Age() > l.maxConnAge {
		return false
	}
	return true
}

// ValidatePut rejects closed connections.
func (l *ConnLifecycle) ValidatePut(c *Conn) bool {
	return c != nil && !c.Closed()
}
