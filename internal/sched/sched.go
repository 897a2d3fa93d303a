// Package sched provides an injectable scheduler abstraction so retry
// backoff, throttling, and health monitoring can be driven by a virtual
// clock in tests instead of wall-clock waits.
package sched

import (
	"sync"
	"time"
)

// CancelFunc cancels a pending or repeating callback. Safe to call more than
// once.
type CancelFunc func()

// Scheduler schedules future work. Implementations must allow callbacks to
// schedule further work without deadlocking.
type Scheduler interface {
	// After runs fn once after d has elapsed.
	After(d time.Duration, fn func()) CancelFunc

	// Every runs fn repeatedly at interval d until cancelled.
	Every(d time.Duration, fn func()) CancelFunc

	// Now returns the scheduler's current time.
	Now() time.Time
}

// Timer is the wall-clock Scheduler used in production.
type Timer struct{}

// NewTimer creates a wall-clock scheduler.
func NewTimer() *Timer { return &Timer{} }

// After runs fn once after d on a timer goroutine.
func (*Timer) After(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Every runs fn at interval d until cancelled.
func (*Timer) Every(d time.Duration, fn func()) CancelFunc {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	var once sync.Once

	go func() {
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

// Now returns the current wall-clock time.
func (*Timer) Now() time.Time { return time.Now() }

var _ Scheduler = (*Timer)(nil)
