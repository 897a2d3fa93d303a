package sched

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Scheduler driven by an explicit virtual clock. Nothing runs
// until Advance is called, which makes timer-dependent behavior (backoff,
// throttle windows, monitor ticks) deterministic in tests.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	nextID  int
	pending []*manualEntry
}

type manualEntry struct {
	id     int
	at     time.Time
	every  time.Duration // 0 for one-shot
	fn     func()
	cancel bool
}

// NewManual creates a manual scheduler starting at the given time.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// After registers fn to run when the virtual clock reaches now+d.
func (m *Manual) After(d time.Duration, fn func()) CancelFunc {
	return m.add(d, 0, fn)
}

// Every registers fn to run each time another d elapses on the virtual
// clock.
func (m *Manual) Every(d time.Duration, fn func()) CancelFunc {
	return m.add(d, d, fn)
}

func (m *Manual) add(d, every time.Duration, fn func()) CancelFunc {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	e := &manualEntry{
		id:    m.nextID,
		at:    m.now.Add(d),
		every: every,
		fn:    fn,
	}
	m.pending = append(m.pending, e)

	return func() {
		m.mu.Lock()
		e.cancel = true
		m.mu.Unlock()
	}
}

// Now returns the current virtual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the virtual clock forward by d, firing due callbacks in
// chronological order. Callbacks may schedule further work; anything that
// becomes due within the same advance also fires.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)

	for {
		e := m.nextDue(target)
		if e == nil {
			break
		}
		// Move the clock to the firing point so callbacks observe a
		// consistent Now.
		m.now = e.at
		if e.every > 0 {
			e.at = e.at.Add(e.every)
		} else {
			e.cancel = true
		}
		fn := e.fn
		m.mu.Unlock()
		fn()
		m.mu.Lock()
	}

	m.now = target
	m.compact()
	m.mu.Unlock()
}

// nextDue returns the earliest non-cancelled entry at or before target.
// Ties fire in registration order.
func (m *Manual) nextDue(target time.Time) *manualEntry {
	var best *manualEntry
	for _, e := range m.pending {
		if e.cancel || e.at.After(target) {
			continue
		}
		if best == nil || e.at.Before(best.at) || (e.at.Equal(best.at) && e.id < best.id) {
			best = e
		}
	}
	return best
}

func (m *Manual) compact() {
	kept := m.pending[:0]
	for _, e := range m.pending {
		if !e.cancel {
			kept = append(kept, e)
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].at.Equal(kept[j].at) {
			return kept[i].id < kept[j].id
		}
		return kept[i].at.Before(kept[j].at)
	})
	m.pending = kept
}

// PendingCount returns how many callbacks are waiting, for teardown
// assertions.
func (m *Manual) PendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.pending {
		if !e.cancel {
			n++
		}
	}
	return n
}

var _ Scheduler = (*Manual)(nil)
