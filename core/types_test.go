package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockTick(t *testing.T) {
	base := time.Unix(1000, 0)
	now := base
	c := newClockAt(func() time.Time { return now })

	now = base.Add(50 * time.Millisecond)
	elapsed, dt := c.Tick()
	assert.InDelta(t, 0.05, elapsed, 1e-6)
	assert.InDelta(t, 0.05, dt, 1e-6)

	now = base.Add(2 * time.Second)
	elapsed, dt = c.Tick()
	assert.InDelta(t, 2, elapsed, 1e-6)
	assert.InDelta(t, MaxFrameDelta, dt, 1e-6, "long frames are capped")
}
