package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHSVPrimaries(t *testing.T) {
	cases := []struct {
		h       float32
		r, g, b float32
	}{
		{0, 1, 0, 0},
		{1.0 / 3.0, 0, 1, 0},
		{2.0 / 3.0, 0, 0, 1},
	}
	for _, tc := range cases {
		c := hsvToRGB(tc.h, 1, 1)
		assert.InDelta(t, tc.r, c.X(), 1e-5, "h=%v", tc.h)
		assert.InDelta(t, tc.g, c.Y(), 1e-5, "h=%v", tc.h)
		assert.InDelta(t, tc.b, c.Z(), 1e-5, "h=%v", tc.h)
	}
}

func TestHSVZeroSaturationIsGray(t *testing.T) {
	c := hsvToRGB(0.42, 0, 0.5)
	assert.InDelta(t, 0.5, c.X(), 1e-6)
	assert.InDelta(t, 0.5, c.Y(), 1e-6)
	assert.InDelta(t, 0.5, c.Z(), 1e-6)
}

func TestGenerateColorIsDim(t *testing.T) {
	for i := 0; i < 50; i++ {
		c := generateColor()
		for axis, v := range []float32{c.X(), c.Y(), c.Z()} {
			assert.GreaterOrEqual(t, v, float32(0), "axis %d", axis)
			assert.LessOrEqual(t, v, float32(0.15)+1e-6, "axis %d", axis)
		}
	}
}

func TestSpeedScale(t *testing.T) {
	assert.InDelta(t, 1.0, speedScale(0), 1e-6, "a stationary press injects at base strength")
	assert.InDelta(t, 2.0, speedScale(0.05), 1e-6)
	assert.InDelta(t, 3.0, speedScale(10), 1e-6, "scaling is capped")
}

func TestCorrectRadius(t *testing.T) {
	assert.InDelta(t, 0.0025, correctRadius(0.25), 1e-7)
	assert.InDelta(t, 0.01, correctRadius(1.0), 1e-7)
	// Below the floor the kernel would divide by ~zero.
	assert.InDelta(t, 0.0001, correctRadius(0.0001), 1e-9)
}
