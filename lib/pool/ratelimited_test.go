package pool

import (
	"errors"
	"testing"

	apperrors "github.com/go-i2p/connpool/lib/errors"
	"github.com/go-i2p/connpool/lib/ratelimit"
)

func TestRateLimitedAllowsWithinBudget(t *testing.T) {
	lc := RateLimited[*testObject](&testLifecycle{}, ratelimit.New(0, 2))
	p := startedPool(t, lc, Config{MaxSize: 5})

	a := mustAcquire(t, p)
	b := mustAcquire(t, p)
	if a == nil || b == nil {
		t.Fatal("expected two objects within the creation budget")
	}
}

func TestRateLimitedDeniesBeyondBudget(t *testing.T) {
	lc := RateLimited[*testObject](&testLifecycle{}, ratelimit.New(0, 1))
	p := startedPool(t, lc, Config{MaxSize: 5})

	obj := mustAcquire(t, p)

	var gotErr error
	delivered := make(chan struct{})
	p.Acquire(func(o *testObject, err error) {
		gotErr = err
		close(delivered)
	})
	<-delivered
	if !errors.Is(gotErr, apperrors.ErrRateLimited) {
		t.Errorf("err = %v, want ErrRateLimited", gotErr)
	}

	// Capacity reserved for the denied creation came back.
	if stats := p.Stats(); stats.PoolSize != 1 {
		t.Errorf("PoolSize = %d, want 1", stats.PoolSize)
	}

	// Reuse of the existing object is not rate limited.
	p.Release(obj)
	if got := mustAcquire(t, p); got != obj {
		t.Errorf("reuse got %v, want %v", got, obj)
	}
}

func TestRateLimitedPassesThroughDestroy(t *testing.T) {
	inner := &testLifecycle{}
	lc := RateLimited[*testObject](inner, ratelimit.New(0, 1))
	p := startedPool(t, lc, Config{MaxSize: 5})

	obj := mustAcquire(t, p)
	p.Discard(obj)
	if got := inner.destroyedCount(); got != 1 {
		t.Errorf("destroyed = %d, want 1", got)
	}
}
