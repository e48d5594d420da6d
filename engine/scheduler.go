package engine

import "time"

// Timer is a cancellable deferred callback.
type Timer interface {
	Stop() bool
}

// Scheduler owns deferred execution. The default implementation delegates to
// time.AfterFunc; tests substitute a manual scheduler to drive the state
// machine deterministically.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

func stopTimer(t *Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}
