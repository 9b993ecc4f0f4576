package snapshot

import (
	"errors"
	"sort"
	"time"
)

// fakeClock is a manual Scheduler: callbacks run only when Advance passes
// their deadline.
type fakeClock struct {
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (c *fakeClock) Schedule(d time.Duration, f func()) Timer {
	t := &fakeTimer{at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now += d
	sort.SliceStable(c.timers, func(i, j int) bool { return c.timers[i].at < c.timers[j].at })
	for _, t := range c.timers {
		if t.stopped || t.fired || t.at > c.now {
			continue
		}
		t.fired = true
		t.f()
	}
}

type failingStorage struct{ err error }

func (s failingStorage) Load(string) (string, error) { return "", s.err }
func (s failingStorage) Store(string, string) error  { return s.err }

var errDisk = errors.New("disk full")
