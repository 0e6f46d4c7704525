package pool

// waiterNode holds one pending Acquire callback. Nodes are handed back to
// callers inside a Cancellable, so removal from any position is O(1).
type waiterNode[T any] struct {
	cb     Callback[T]
	prev   *waiterNode[T]
	next   *waiterNode[T]
	queued bool
}

// waiterQueue is an intrusive doubly-linked FIFO of pending acquirers.
// All methods must be called with the pool lock held.
type waiterQueue[T any] struct {
	head *waiterNode[T]
	tail *waiterNode[T]
	size int
}

func (q *waiterQueue[T]) len() int {
	return q.size
}

// pushBack appends a callback and returns its node for later removal.
func (q *waiterQueue[T]) pushBack(cb Callback[T]) *waiterNode[T] {
	n := &waiterNode[T]{cb: cb, queued: true}
	if q.tail == nil {
		q.head = n
	} else {
		q.tail.next = n
		n.prev = q.tail
	}
	q.tail = n
	q.size++
	return n
}

// popFront removes and returns the oldest waiter.
func (q *waiterQueue[T]) popFront() (Callback[T], bool) {
	n := q.head
	if n == nil {
		return nil, false
	}
	q.unlink(n)
	return n.cb, true
}

// remove unlinks a node if it is still queued. Returns false when the node
// was already served or removed, so a Cancellable succeeds at most once.
func (q *waiterQueue[T]) remove(n *waiterNode[T]) bool {
	if !n.queued {
		return false
	}
	q.unlink(n)
	return true
}

func (q *waiterQueue[T]) unlink(n *waiterNode[T]) {
	if n.prev == nil {
		q.head = n.next
	} else {
		n.prev.next = n.next
	}
	if n.next == nil {
		q.tail = n.prev
	} else {
		n.next.prev = n.prev
	}
	n.prev = nil
	n.next = nil
	n.queued = false
	q.size--
}

// drain removes every waiter and returns their callbacks in FIFO order.
func (q *waiterQueue[T]) drain() []Callback[T] {
	if q.size == 0 {
		return nil
	}
	drained := make([]Callback[T], 0, q.size)
	for n := q.head; n != nil; {
		next := n.next
		n.prev = nil
		n.next = nil
		n.queued = false
		drained = append(drained, n.cb)
		n = next
	}
	q.head = nil
	q.tail = nil
	q.size = 0
	return drained
}
