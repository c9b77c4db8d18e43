package simulation

import "time"

// maxDelta bounds the integration step to 60 Hz equivalent. Larger wall
// clock gaps (a dragged window, a suspended laptop) would otherwise
// backtrace advection across most of the grid in one step.
const maxDelta = float32(1.0 / 60.0)

// pacer gates ticks to a target frame rate and clamps the integration
// step. Pure bookkeeping, no GPU involvement.
type pacer struct {
	minInterval time.Duration
	last        time.Time
}

func newPacer(targetFPS int) *pacer {
	if targetFPS <= 0 {
		targetFPS = 60
	}
	return &pacer{minInterval: time.Second / time.Duration(targetFPS)}
}

// Allow reports whether a tick arriving at now is due, and records it if
// so. The millisecond of slack absorbs scheduler jitter so a vsynced loop
// at exactly the target rate is not skipped every other frame.
func (p *pacer) Allow(now time.Time) bool {
	if !p.last.IsZero() && now.Sub(p.last) < p.minInterval-time.Millisecond {
		return false
	}
	p.last = now
	return true
}

// ClampDelta bounds the supplied delta into [0, maxDelta].
func (p *pacer) ClampDelta(dt float32) float32 {
	if dt < 0 {
		return 0
	}
	if dt > maxDelta {
		return maxDelta
	}
	return dt
}
