package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointerActivity(t *testing.T) {
	assert.False(t, PointerState{}.Active())
	assert.True(t, PointerState{Down: true}.Active())
	assert.True(t, PointerState{DX: 0.01}.Active())
	assert.True(t, PointerState{DY: -0.01}.Active())
}

func TestPointerSpeed(t *testing.T) {
	p := PointerState{DX: 0.3, DY: 0.4}
	assert.InDelta(t, 0.5, p.Speed(), 1e-6)
	assert.Zero(t, PointerState{}.Speed())
}
