package pool

import "time"

// timedObject pairs an idle object with the time it went idle.
type timedObject[T any] struct {
	obj        T
	returnedAt time.Time
}

// idleStore keeps idle objects in return order: the newest entry sits at the
// warm end for LIFO reuse, the oldest at the cold end for expiry. All methods
// must be called with the pool lock held.
type idleStore[T any] struct {
	entries []timedObject[T]
}

func (s *idleStore[T]) len() int {
	return len(s.entries)
}

func (s *idleStore[T]) push(obj T, now time.Time) {
	s.entries = append(s.entries, timedObject[T]{obj: obj, returnedAt: now})
}

// popNewest removes and returns the most recently returned object.
func (s *idleStore[T]) popNewest() (T, bool) {
	if len(s.entries) == 0 {
		var zero T
		return zero, false
	}
	last := len(s.entries) - 1
	obj := s.entries[last].obj
	s.entries[last] = timedObject[T]{}
	s.entries = s.entries[:last]
	return obj, true
}

// expire removes and returns every object returned before cutoff, scanning
// from the cold end and stopping at the first entry still fresh.
func (s *idleStore[T]) expire(cutoff time.Time) []T {
	n := 0
	for n < len(s.entries) && s.entries[n].returnedAt.Before(cutoff) {
		n++
	}
	if n == 0 {
		return nil
	}
	expired := make([]T, n)
	for i := 0; i < n; i++ {
		expired[i] = s.entries[i].obj
	}
	remaining := copy(s.entries, s.entries[n:])
	for i := remaining; i < len(s.entries); i++ {
		s.entries[i] = timedObject[T]{}
	}
	s.entries = s.entries[:remaining]
	return expired
}
