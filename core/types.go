package core

import "time"

// Clock measures frame times.
type Clock struct {
	start time.Time
	last  time.Time
	now   func() time.Time
}

func NewClock() *Clock {
	return newClockAt(time.Now)
}

func newClockAt(now func() time.Time) *Clock {
	t := now()
	return &Clock{start: t, last: t, now: now}
}

// Tick returns seconds since the clock started and since the previous Tick.
// The delta is capped at MaxFrameDelta.
func (c *Clock) Tick() (elapsed, dt float32) {
	t := c.now()
	dt = float32(t.Sub(c.last).Seconds())
	c.last = t
	return float32(t.Sub(c.start).Seconds()), min(dt, MaxFrameDelta)
}

const MaxFrameDelta = 0.1
