package pool

// Callback delivers the outcome of an asynchronous operation on objects of
// type T. Exactly one invocation is expected per operation: err is nil on
// success, non-nil on failure. The pool never invokes a Callback while
// holding its internal lock.
type Callback[T any] func(obj T, err error)

// Lifecycle supplies creation, destruction and validation of pooled objects.
// Create and Destroy are asynchronous: they may complete on any goroutine,
// and must invoke their callback exactly once. The validation predicates are
// synchronous and must not call back into the pool.
type Lifecycle[T any] interface {
	// Create asynchronously creates a new object.
	Create(cb Callback[T])

	// Destroy asynchronously destroys an object. bad marks objects known or
	// suspected to be unusable; objects that merely expired idle are
	// destroyed with bad=false.
	Destroy(obj T, bad bool, cb Callback[T])

	// ValidateGet reports whether an idle object is still fit to hand out.
	ValidateGet(obj T) bool

	// ValidatePut reports whether a returned object is fit for reuse.
	ValidatePut(obj T) bool
}

// LifecycleFuncs adapts plain functions to the Lifecycle interface. Nil
// fields get permissive defaults: validation accepts everything and Destroy
// completes immediately.
type LifecycleFuncs[T any] struct {
	CreateFunc      func(cb Callback[T])
	DestroyFunc     func(obj T, bad bool, cb Callback[T])
	ValidateGetFunc func(obj T) bool
	ValidatePutFunc func(obj T) bool
}

func (l *LifecycleFuncs[T]) Create(cb Callback[T]) {
	l.CreateFunc(cb)
}

func (l *LifecycleFuncs[T]) Destroy(obj T, bad bool, cb Callback[T]) {
	if l.DestroyFunc == nil {
		cb(obj, nil)
		return
	}
	l.DestroyFunc(obj, bad, cb)
}

func (l *LifecycleFuncs[T]) ValidateGet(obj T) bool {
	if l.ValidateGetFunc == nil {
		return true
	}
	return l.ValidateGetFunc(obj)
}

func (l *LifecycleFuncs[T]) ValidatePut(obj T) bool {
	if l.ValidatePutFunc == nil {
		return true
	}
	return l.ValidatePutFunc(obj)
}
