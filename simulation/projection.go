package simulation

import (
	"fluidsim/core"
	"fluidsim/rendering/opengl/shaders"
)

// ProjectionPass subtracts the discrete pressure gradient from velocity,
// enforcing approximate incompressibility. This is its own operator, not
// another relaxation step: it reads the relaxed pressure and writes
// velocity.
type ProjectionPass struct {
	basePass
}

func NewProjectionPass(cache *shaders.Cache) (*ProjectionPass, error) {
	base, err := newBasePass("projection", cache, shaders.ProjectionFragment)
	if err != nil {
		return nil, err
	}
	return &ProjectionPass{basePass: base}, nil
}

func (p *ProjectionPass) Execute(in *PassInputs) error {
	if err := p.ensureReady(); err != nil {
		return err
	}
	if in.Pressure == 0 {
		return &core.MissingInputError{Pass: p.name, Input: "pressure"}
	}
	if in.Velocity == 0 {
		return &core.MissingInputError{Pass: p.name, Input: "velocity"}
	}

	p.begin(in)
	bindTexture(p.program.Uniform("uPressure"), 0, in.Pressure)
	bindTexture(p.program.Uniform("uVelocity"), 1, in.Velocity)
	p.draw()
	return nil
}
