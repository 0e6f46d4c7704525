// Package ratelimit provides a simple token bucket rate limiter.
// connpool uses it to bound the rate of object creation against backends
// that throttle or penalize connection storms.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a token bucket rate limiter.
type Limiter struct {
	mu       sync.Mutex
	rate     float64   // tokens per second
	capacity float64   // max tokens
	tokens   float64   // current tokens
	lastTime time.Time // last refill time
}

// New creates a new rate limiter.
// rate is tokens per second, capacity is the maximum burst size.
func New(rate float64, capacity int) *Limiter {
	return &Limiter{
		rate:     rate,
		capacity: float64(capacity),
		tokens:   float64(capacity),
		lastTime: time.Now(),
	}
}

// Allow returns true if a request is allowed, consuming one token.
// Returns false if the rate limit is exceeded.
func (l *Limiter) Allow() bool {
	return l.AllowN(1)
}

// AllowN returns true if n requests are allowed, consuming n tokens.
func (l *Limiter) AllowN(n int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()

	needed := float64(n)
	if l.tokens >= needed {
		l.tokens -= needed
		return true
	}
	return false
}

// Tokens returns the current number of available tokens.
func (l *Limiter) Tokens() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refill()
	return l.tokens
}

// refill adds tokens based on elapsed time. Must be called with lock held.
func (l *Limiter) refill() {
	now := time.Now()
	elapsed := now.Sub(l.lastTime).Seconds()
	l.tokens += elapsed * l.rate
	if l.tokens > l.capacity {
		l.tokens = l.capacity
	}
	l.lastTime = now
}
