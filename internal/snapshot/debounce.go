package snapshot

import (
	"sync"
	"time"
)

// Timer is the handle of a scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. time.AfterFunc satisfies it.
type Scheduler func(d time.Duration, f func()) Timer

func realScheduler(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer is a cancellable trailing-edge deferred task: every Trigger
// cancels the pending run and schedules a new one delay later, so a burst
// of triggers runs fn once, delay after the last of them.
type Debouncer struct {
	delay    time.Duration
	fn       func()
	schedule Scheduler
	timer    Timer
	gen      uint64
	mu       sync.Mutex
}

// NewDebouncer returns a debouncer for fn. A nil schedule uses real timers.
func NewDebouncer(delay time.Duration, fn func(), schedule Scheduler) *Debouncer {
	if schedule == nil {
		schedule = realScheduler
	}
	return &Debouncer{delay: delay, fn: fn, schedule: schedule}
}

// Trigger (re)starts the quiescence window.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.schedule(d.delay, func() { d.fire(gen) })
}

// Cancel drops the pending run, reporting whether there was one.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancelLocked()
}

// Pending reports whether a run is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Flush runs a pending task immediately instead of waiting.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	pending := d.cancelLocked()
	d.mu.Unlock()
	if pending {
		d.fn()
	}
}

func (d *Debouncer) cancelLocked() bool {
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	return true
}

// fire runs fn unless the timer it belongs to was superseded after it had
// already started firing.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.fn()
}
