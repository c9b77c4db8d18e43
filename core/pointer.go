package core

import "github.com/chewxy/math32"

// PointerState is the per-tick pointer/touch sample fed into the solver.
// Position and delta are normalized to the drawing surface: (0,0) is the
// bottom-left corner, (1,1) the top-right.
type PointerState struct {
	X, Y   float32
	DX, DY float32
	Down   bool
}

// Moved reports whether the pointer moved since the previous sample.
func (p PointerState) Moved() bool {
	return p.DX != 0 || p.DY != 0
}

// Active reports whether the sample should produce a splat this tick.
func (p PointerState) Active() bool {
	return p.Down || p.Moved()
}

// Speed is the magnitude of the normalized delta.
func (p PointerState) Speed() float32 {
	return math32.Hypot(p.DX, p.DY)
}
