package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"fluidsim/rendering/opengl"
	"fluidsim/simulation"
)

// inputTracker turns raw GLFW events into the normalized pointer samples
// the solver consumes: position in [0,1] with the origin at the bottom
// left, plus the per-event delta and press state.
type inputTracker struct {
	ctx    *opengl.Context
	solver *simulation.Solver
	log    *zap.Logger

	lastX, lastY float32
	seeded       bool
	down         bool
}

func wireInput(ctx *opengl.Context, solver *simulation.Solver, log *zap.Logger) {
	t := &inputTracker{ctx: ctx, solver: solver, log: log}
	window := ctx.Window()
	window.SetCursorPosCallback(t.onCursor)
	window.SetMouseButtonCallback(t.onButton)
	window.SetFramebufferSizeCallback(t.onResize)
	window.SetKeyCallback(t.onKey)
}

func (t *inputTracker) onCursor(w *glfw.Window, xpos, ypos float64) {
	// Cursor events arrive in window coordinates, which differ from the
	// framebuffer dimensions on hi-DPI displays.
	winW, winH := w.GetSize()
	if winW <= 0 || winH <= 0 {
		return
	}
	x, y := normalizeCursor(xpos, ypos, winW, winH)

	if !t.seeded {
		t.lastX, t.lastY = x, y
		t.seeded = true
	}
	dx := x - t.lastX
	dy := y - t.lastY
	t.lastX, t.lastY = x, y

	t.solver.HandleInput(x, y, dx, dy, t.down)
}

// normalizeCursor maps a cursor position in window coordinates to the
// [0,1] range the solver expects, flipping to a bottom-left origin.
func normalizeCursor(xpos, ypos float64, width, height int) (float32, float32) {
	x := float32(xpos) / float32(width)
	y := 1 - float32(ypos)/float32(height)
	return x, y
}

func (t *inputTracker) onButton(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}
	t.down = action == glfw.Press
	t.solver.HandleInput(t.lastX, t.lastY, 0, 0, t.down)
}

func (t *inputTracker) onResize(w *glfw.Window, width, height int) {
	if width <= 0 || height <= 0 {
		return // minimized
	}
	t.ctx.Resize(width, height)
	if err := t.solver.Resize(width, height); err != nil {
		// Fields are gone until a successful reallocation; there is no
		// degraded mode to keep running in.
		t.log.Error("resize failed, shutting down", zap.Error(err))
		w.SetShouldClose(true)
	}
}

func (t *inputTracker) onKey(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	switch key {
	case glfw.KeyEscape:
		w.SetShouldClose(true)
	case glfw.KeySpace:
		t.solver.RandomSplats(5)
	}
}
