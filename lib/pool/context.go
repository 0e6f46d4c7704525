package pool

import "context"

// AcquireContext acquires an object, blocking the calling goroutine until one
// is available or ctx is done. It bridges the callback surface for callers
// that prefer synchronous, context-aware acquisition.
//
// If ctx is done while the request is still queued, the waiter is cancelled
// and the context error is returned. An object that was handed over in the
// same instant is released back to the pool.
func (p *Pool[T]) AcquireContext(ctx context.Context) (T, error) {
	type outcome struct {
		obj T
		err error
	}
	ch := make(chan outcome, 1)
	cancel := p.Acquire(func(obj T, err error) {
		ch <- outcome{obj: obj, err: err}
	})
	if cancel == nil {
		out := <-ch
		return out.obj, out.err
	}

	select {
	case out := <-ch:
		return out.obj, out.err
	case <-ctx.Done():
	}

	var zero T
	if cancel.Cancel() {
		return zero, ctx.Err()
	}
	// The waiter was served while we were cancelling; take the outcome and
	// hand any object back.
	out := <-ch
	if out.err == nil {
		p.Release(out.obj)
	}
	return zero, ctx.Err()
}
