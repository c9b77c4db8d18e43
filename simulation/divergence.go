package simulation

import (
	"fluidsim/core"
	"fluidsim/rendering/opengl/shaders"
)

// DivergencePass measures how much each cell acts as a source or sink,
// feeding the pressure solve. Boundary cells mirror the missing neighbor
// with the negated normal component (free-slip walls).
type DivergencePass struct {
	basePass
}

func NewDivergencePass(cache *shaders.Cache) (*DivergencePass, error) {
	base, err := newBasePass("divergence", cache, shaders.DivergenceFragment)
	if err != nil {
		return nil, err
	}
	return &DivergencePass{basePass: base}, nil
}

func (p *DivergencePass) Execute(in *PassInputs) error {
	if err := p.ensureReady(); err != nil {
		return err
	}
	if in.Velocity == 0 {
		return &core.MissingInputError{Pass: p.name, Input: "velocity"}
	}

	p.begin(in)
	bindTexture(p.program.Uniform("uVelocity"), 0, in.Velocity)
	p.draw()
	return nil
}
