// Package lifecycle provides the single pending wake-up timer used by each
// room and by the pairing registry. A scope holds at most one pending
// deadline at a time; rescheduling replaces it rather than adding to it.
package lifecycle

import (
	"sync"
	"time"
)

// Timer is a one-shot rescheduling timer for one scope. The callback runs in
// its own goroutine when the deadline passes, at most once per scheduled
// deadline; a reschedule invalidates any firing already in flight. The zero
// value is not usable; use NewTimer.
type Timer struct {
	mu       sync.Mutex
	fn       func()
	timer    *time.Timer
	deadline time.Time
	gen      uint64
	stopped  bool
}

// NewTimer creates a Timer with no pending deadline.
func NewTimer(fn func()) *Timer {
	return &Timer{fn: fn}
}

// Reschedule replaces any pending deadline with now+d.
func (t *Timer) Reschedule(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.scheduleLocked(d)
}

// Tighten schedules a wake-up at now+d unless an earlier deadline is already
// pending. Used by the pairing registry, where a sweep must run no later
// than the next expiry.
func (t *Timer) Tighten(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	deadline := time.Now().Add(d)
	if t.timer != nil && !t.deadline.After(deadline) {
		return
	}
	t.scheduleLocked(d)
}

// scheduleLocked replaces the pending timer. Caller must hold t.mu.
func (t *Timer) scheduleLocked(d time.Duration) {
	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.deadline = time.Now().Add(d)
	t.timer = time.AfterFunc(d, func() { t.fire(gen) })
}

// fire runs the callback unless the deadline it was scheduled for has been
// replaced or cancelled in the meantime.
func (t *Timer) fire(gen uint64) {
	t.mu.Lock()
	if t.stopped || gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	t.deadline = time.Time{}
	t.mu.Unlock()

	t.fn()
}

// Pending reports whether a deadline is currently scheduled.
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

// Stop cancels any pending deadline and prevents future scheduling.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
