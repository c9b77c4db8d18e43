package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chewxy/math32"
)

// Settings is the on-disk configuration. Every field has a default so a
// missing file or a partial file is fine.
type Settings struct {
	Simulation SimulationConfig `json:"simulation"`
	Window     WindowSettings   `json:"window"`
	Stats      StatsSettings    `json:"stats"`
	LogLevel   string           `json:"logLevel"`
}

// SimulationConfig holds the physics coefficients consumed at solver
// construction and whenever pointer splats are applied. It is passed by
// value and never mutated mid-pass.
type SimulationConfig struct {
	// VelocityDissipation damps the velocity field each tick. Values below
	// 1.0 bleed energy out of the simulation.
	VelocityDissipation float32 `json:"velocityDissipation"`

	// DensityDissipation damps the dye field each tick.
	DensityDissipation float32 `json:"densityDissipation"`

	// Pressure scales the previous tick's pressure field carried into the
	// first Jacobi iteration. Lower values forget stale pressure faster.
	Pressure float32 `json:"pressure"`

	// PressureIterations is the Jacobi iteration count per tick, clamped
	// into [1,100].
	PressureIterations int `json:"pressureIterations"`

	// Curl is the vorticity confinement strength.
	Curl float32 `json:"curl"`

	// SplatRadius is the pointer injection radius, clamped into [0.01,1.0].
	SplatRadius float32 `json:"splatRadius"`

	// SplatForce scales pointer motion into injected velocity, clamped
	// into [0,10000].
	SplatForce float32 `json:"splatForce"`

	// TargetFPS sets the minimum inter-tick interval; Execute calls that
	// arrive sooner skip all pass work.
	TargetFPS int `json:"targetFps"`

	// Brightness and Contrast adjust the displayed dye field.
	Brightness float32 `json:"brightness"`
	Contrast   float32 `json:"contrast"`
}

type WindowSettings struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Title  string `json:"title"`
	VSync  bool   `json:"vsync"`
}

type StatsSettings struct {
	Addr string `json:"addr"` // empty disables the stats server
}

// Defaults returns the baseline settings used when no file is present.
func Defaults() Settings {
	return Settings{
		Simulation: SimulationConfig{
			VelocityDissipation: 0.99,
			DensityDissipation:  0.97,
			Pressure:            0.8,
			PressureIterations:  20,
			Curl:                30,
			SplatRadius:         0.25,
			SplatForce:          6000,
			TargetFPS:           60,
			Brightness:          1.0,
			Contrast:            1.0,
		},
		Window: WindowSettings{
			Width:  1024,
			Height: 768,
			Title:  "Fluid",
			VSync:  true,
		},
		LogLevel: "info",
	}
}

// Load reads settings from path on top of the defaults. A missing file is
// not an error; a malformed one is.
func Load(path string) (Settings, error) {
	s := Defaults()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&s); err != nil {
		return s, fmt.Errorf("parse %s: %w", path, err)
	}

	s.Simulation = s.Simulation.Clamped()
	return s, nil
}

// Clamped returns a copy with every coefficient forced into its valid
// range. Out-of-range requests clamp to the nearest bound rather than
// erroring, so a bad settings file degrades instead of failing.
func (c SimulationConfig) Clamped() SimulationConfig {
	c.PressureIterations = clampInt(c.PressureIterations, 1, 100)
	c.SplatRadius = clamp(c.SplatRadius, 0.01, 1.0)
	c.SplatForce = clamp(c.SplatForce, 0, 10000)
	c.VelocityDissipation = clamp(c.VelocityDissipation, 0, 1)
	c.DensityDissipation = clamp(c.DensityDissipation, 0, 1)
	c.Pressure = clamp(c.Pressure, 0, 1)
	if c.TargetFPS <= 0 {
		c.TargetFPS = 60
	}
	if c.Brightness <= 0 {
		c.Brightness = 1.0
	}
	if c.Contrast <= 0 {
		c.Contrast = 1.0
	}
	return c
}

func clamp(v, lo, hi float32) float32 {
	return math32.Min(math32.Max(v, lo), hi)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
