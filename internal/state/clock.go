package state

import "sync/atomic"

// Clock hands out document revisions. Every published change gets the next
// value, so subscribers can order what they receive.
type Clock struct {
	counter atomic.Uint64
}

// Tick advances the clock and returns the new revision.
func (c *Clock) Tick() uint64 {
	return c.counter.Add(1)
}

// Now returns the last revision handed out.
func (c *Clock) Now() uint64 {
	return c.counter.Load()
}
