package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s := Defaults()
	assert.Equal(t, 20, s.Simulation.PressureIterations)
	assert.Equal(t, 60, s.Simulation.TargetFPS)
	assert.InDelta(t, 0.25, s.Simulation.SplatRadius, 1e-6)
	assert.InDelta(t, 6000, s.Simulation.SplatForce, 1e-6)

	// Defaults must already be inside the valid ranges.
	assert.Equal(t, s.Simulation, s.Simulation.Clamped())
}

func TestClampedPressureIterations(t *testing.T) {
	cases := []struct {
		requested int
		want      int
	}{
		{150, 100},
		{-5, 1},
		{0, 1},
		{1, 1},
		{100, 100},
		{20, 20},
	}
	for _, tc := range cases {
		c := Defaults().Simulation
		c.PressureIterations = tc.requested
		assert.Equal(t, tc.want, c.Clamped().PressureIterations, "requested %d", tc.requested)
	}
}

func TestClampedSplatBounds(t *testing.T) {
	c := Defaults().Simulation
	c.SplatRadius = 2.5
	c.SplatForce = 50000
	got := c.Clamped()
	assert.InDelta(t, 1.0, got.SplatRadius, 1e-6)
	assert.InDelta(t, 10000, got.SplatForce, 1e-6)

	c.SplatRadius = 0.001
	c.SplatForce = -3
	got = c.Clamped()
	assert.InDelta(t, 0.01, got.SplatRadius, 1e-6)
	assert.InDelta(t, 0, got.SplatForce, 1e-6)
}

func TestClampedFrameRate(t *testing.T) {
	c := Defaults().Simulation
	c.TargetFPS = -10
	assert.Equal(t, 60, c.Clamped().TargetFPS)

	c.TargetFPS = 30
	assert.Equal(t, 30, c.Clamped().TargetFPS)
}

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
}

func TestLoadOverridesAndClamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fluid.json")
	body := `{
		"simulation": {
			"velocityDissipation": 0.95,
			"densityDissipation": 0.9,
			"pressure": 0.7,
			"pressureIterations": 500,
			"curl": 12,
			"splatRadius": 0.5,
			"splatForce": 99999,
			"targetFps": 30,
			"brightness": 1.2,
			"contrast": 1.1
		},
		"window": {"width": 640, "height": 480, "title": "t", "vsync": false},
		"logLevel": "debug"
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.95, s.Simulation.VelocityDissipation, 1e-6)
	assert.Equal(t, 100, s.Simulation.PressureIterations, "file values pass through the clamp")
	assert.InDelta(t, 10000, s.Simulation.SplatForce, 1e-6)
	assert.Equal(t, 30, s.Simulation.TargetFPS)
	assert.Equal(t, 640, s.Window.Width)
	assert.Equal(t, "debug", s.LogLevel)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fluid.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
