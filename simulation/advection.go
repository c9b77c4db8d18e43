package simulation

import (
	"github.com/go-gl/gl/v3.3-core/gl"

	"fluidsim/core"
	"fluidsim/rendering/opengl/shaders"
)

// AdvectionPass transports a field through the velocity field with a
// semi-Lagrangian backtrace and applies dissipation. Run once per tick for
// velocity (self-advection) and once for dye.
type AdvectionPass struct {
	basePass
}

func NewAdvectionPass(cache *shaders.Cache) (*AdvectionPass, error) {
	base, err := newBasePass("advection", cache, shaders.AdvectionFragment)
	if err != nil {
		return nil, err
	}
	return &AdvectionPass{basePass: base}, nil
}

func (p *AdvectionPass) Execute(in *PassInputs) error {
	if err := p.ensureReady(); err != nil {
		return err
	}
	if in.Velocity == 0 {
		return &core.MissingInputError{Pass: p.name, Input: "velocity"}
	}
	if in.Source == 0 {
		return &core.MissingInputError{Pass: p.name, Input: "source"}
	}

	p.begin(in)
	gl.Uniform1f(p.program.Uniform("uDt"), in.DT)
	gl.Uniform1f(p.program.Uniform("uDissipation"), in.Dissipation)
	bindTexture(p.program.Uniform("uVelocity"), 0, in.Velocity)
	bindTexture(p.program.Uniform("uSource"), 1, in.Source)
	p.draw()
	return nil
}
