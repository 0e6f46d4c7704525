package pool

import (
	"sync/atomic"
	"time"
)

// Cancellable cancels a pending operation. Cancel returns true if the
// operation was cancelled, false if it already completed or was already
// cancelled.
type Cancellable interface {
	Cancel() bool
}

// Scheduler runs a task periodically. The pool uses it to drive idle expiry;
// tests can supply a deterministic implementation.
type Scheduler interface {
	Schedule(task func(), initialDelay, period time.Duration) Cancellable
}

// DefaultScheduler runs tasks on a dedicated goroutine backed by time.Ticker.
var DefaultScheduler Scheduler = tickerScheduler{}

type tickerScheduler struct{}

type tickerTask struct {
	stop      chan struct{}
	cancelled atomic.Bool
}

func (t *tickerTask) Cancel() bool {
	if !t.cancelled.CompareAndSwap(false, true) {
		return false
	}
	close(t.stop)
	return true
}

func (tickerScheduler) Schedule(task func(), initialDelay, period time.Duration) Cancellable {
	t := &tickerTask{stop: make(chan struct{})}
	go func() {
		delay := time.NewTimer(initialDelay)
		defer delay.Stop()
		select {
		case <-t.stop:
			return
		case <-delay.C:
		}
		task()

		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				task()
			}
		}
	}()
	return t
}
