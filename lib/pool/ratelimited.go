package pool

import (
	apperrors "github.com/go-i2p/connpool/lib/errors"
	"github.com/go-i2p/connpool/lib/ratelimit"
)

// RateLimited wraps a lifecycle so that object creations are bounded by a
// token bucket. A creation denied by the limiter fails immediately with
// ErrRateLimited; the pool then drains its waiters, so callers see the
// rate-limit error instead of waiting out a timeout. Destruction and
// validation pass through untouched.
func RateLimited[T any](lc Lifecycle[T], limiter *ratelimit.Limiter) Lifecycle[T] {
	return &rateLimitedLifecycle[T]{inner: lc, limiter: limiter}
}

type rateLimitedLifecycle[T any] struct {
	inner   Lifecycle[T]
	limiter *ratelimit.Limiter
}

func (l *rateLimitedLifecycle[T]) Create(cb Callback[T]) {
	if !l.limiter.Allow() {
		var zero T
		cb(zero, apperrors.Wrap(apperrors.CodeRateLimited, "object creation rate limited", apperrors.ErrRateLimited))
		return
	}
	l.inner.Create(cb)
}

func (l *rateLimitedLifecycle[T]) Destroy(obj T, bad bool, cb Callback[T]) {
	l.inner.Destroy(obj, bad, cb)
}

func (l *rateLimitedLifecycle[T]) ValidateGet(obj T) bool {
	return l.inner.ValidateGet(obj)
}

func (l *rateLimitedLifecycle[T]) ValidatePut(obj T) bool {
	return l.inner.ValidatePut(obj)
}
