package simulation

import (
	"fluidsim/core"
	"fluidsim/rendering/opengl/shaders"
)

// CurlPass computes the scalar vorticity field from velocity.
type CurlPass struct {
	basePass
}

func NewCurlPass(cache *shaders.Cache) (*CurlPass, error) {
	base, err := newBasePass("curl", cache, shaders.CurlFragment)
	if err != nil {
		return nil, err
	}
	return &CurlPass{basePass: base}, nil
}

func (p *CurlPass) Execute(in *PassInputs) error {
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
