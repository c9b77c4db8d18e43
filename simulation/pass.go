package simulation

import (
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"fluidsim/core"
	"fluidsim/rendering/opengl/shaders"
)

// Pass is one GPU operation over the fluid grid: bind a program, set the
// pass's uniforms, bind its input textures and issue one full-surface
// draw. The caller selects the render destination before Execute; passes
// never retain textures between calls.
type Pass interface {
	Execute(in *PassInputs) error
	Cleanup()
}

// PassInputs is the per-invocation bundle handed to a pass. Only the
// fields a given pass reads need to be populated; a pass that finds a
// required texture missing reports it before touching GL.
type PassInputs struct {
	// Input textures (GL texture names; 0 means absent).
	Velocity   uint32
	Source     uint32
	Curl       uint32
	Pressure   uint32
	Divergence uint32
	Dye        uint32

	// Grid step and clamped tick delta.
	TexelW float32
	TexelH float32
	DT     float32

	// Advection damping for the field being advected.
	Dissipation float32

	// Vorticity confinement strength.
	CurlStrength float32

	// Scale applied to the previous tick's pressure in the first Jacobi
	// iteration; 1.0 on subsequent iterations.
	OldPressureScale float32

	// Splat parameters.
	Point  mgl32.Vec2
	Color  mgl32.Vec3
	Radius float32
	Aspect float32

	// Display adjustment.
	Brightness float32
	Contrast   float32
}

// basePass carries what every concrete pass owns: its program from the
// shared cache and an empty VAO for the fullscreen triangle.
type basePass struct {
	name    string
	program *shaders.Program
	vao     uint32
	ready   bool
}

func newBasePass(name string, cache *shaders.Cache, fragSrc string) (basePass, error) {
	program, err := cache.CreateProgram(shaders.BaseVertex, fragSrc, name)
	if err != nil {
		return basePass{}, err
	}

	var vao uint32
	gl.GenVertexArrays(1, &vao)

	return basePass{name: name, program: program, vao: vao, ready: true}, nil
}

// ensureReady guards Execute against use before construction succeeded.
func (b *basePass) ensureReady() error {
	if !b.ready || b.program == nil {
		return &core.PassNotInitializedError{Pass: b.name}
	}
	return nil
}

// begin activates the program with blending off. Field arithmetic must
// land exactly as computed; only the display pass composites.
func (b *basePass) begin(in *PassInputs) {
	gl.Disable(gl.BLEND)
	gl.UseProgram(b.program.ID)
	gl.Uniform2f(b.program.Uniform("texelSize"), in.TexelW, in.TexelH)
}

// draw issues the fullscreen triangle.
func (b *basePass) draw() {
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
}

// Cleanup releases the pass's vertex state. The program itself belongs to
// the shader cache, which deletes it exactly once.
func (b *basePass) Cleanup() {
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
	b.program = nil
	b.ready = false
}

// bindTexture binds tex to the given unit and points the sampler uniform
// at it.
func bindTexture(loc int32, unit int32, tex uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.Uniform1i(loc, unit)
}
