package simulation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPacerGatesFastTicks(t *testing.T) {
	p := newPacer(30)
	start := time.Now()

	assert.True(t, p.Allow(start), "first tick always runs")
	assert.False(t, p.Allow(start.Add(time.Millisecond)), "1ms later is inside the 33ms window")
	assert.False(t, p.Allow(start.Add(10*time.Millisecond)))
	assert.True(t, p.Allow(start.Add(40*time.Millisecond)))
}

func TestPacerToleratesVsyncJitter(t *testing.T) {
	// A vsynced loop at exactly the target rate jitters around the
	// interval; it must not be skipped every other frame.
	p := newPacer(60)
	now := time.Now()
	assert.True(t, p.Allow(now))
	assert.True(t, p.Allow(now.Add(16*time.Millisecond)))
}

func TestPacerDefaultsBadRate(t *testing.T) {
	p := newPacer(0)
	assert.Equal(t, time.Second/60, p.minInterval)

	p = newPacer(-5)
	assert.Equal(t, time.Second/60, p.minInterval)
}

func TestClampDelta(t *testing.T) {
	p := newPacer(60)
	assert.Zero(t, p.ClampDelta(-1))
	assert.InDelta(t, float64(maxDelta), float64(p.ClampDelta(1)), 1e-9, "large steps clamp to 60Hz equivalent")
	assert.InDelta(t, 0.01, float64(p.ClampDelta(0.01)), 1e-9)
}
