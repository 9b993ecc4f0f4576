package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// NewSiteID returns a fresh identifier for this session's ops.
func NewSiteID() string {
	return uuid.NewString()
}

// Clock is a Lamport clock used to stamp outgoing ops.
type Clock struct {
	counter atomic.Uint64
}

// Tick advances the clock and returns the new value.
func (c *Clock) Tick() uint64 {
	return c.counter.Add(1)
}

// Witness moves the clock past a timestamp seen on a remote op.
func (c *Clock) Witness(ts uint64) {
	for {
		cur := c.counter.Load()
		if ts <= cur || c.counter.CompareAndSwap(cur, ts) {
			return
		}
	}
}
