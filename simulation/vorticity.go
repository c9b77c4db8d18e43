package simulation

import (
	"github.com/go-gl/gl/v3.3-core/gl"

	"fluidsim/core"
	"fluidsim/rendering/opengl/shaders"
)

// VorticityPass applies vorticity confinement: a force along the gradient
// of the curl magnitude that restores swirling motion lost to the grid.
type VorticityPass struct {
	basePass
}

func NewVorticityPass(cache *shaders.Cache) (*VorticityPass, error) {
	base, err := newBasePass("vorticity", cache, shaders.VorticityFragment)
	if err != nil {
		return nil, err
	}
	return &VorticityPass{basePass: base}, nil
}

func (p *VorticityPass) Execute(in *PassInputs) error {
	if err := p.ensureReady(); err != nil {
		return err
	}
	if in.Velocity == 0 {
		return &core.MissingInputError{Pass: p.name, Input: "velocity"}
	}
	if in.Curl == 0 {
		return &core.MissingInputError{Pass: p.name, Input: "curl"}
	}

	p.begin(in)
	gl.Uniform1f(p.program.Uniform("uCurlStrength"), in.CurlStrength)
	gl.Uniform1f(p.program.Uniform("uDt"), in.DT)
	bindTexture(p.program.Uniform("uVelocity"), 0, in.Velocity)
	bindTexture(p.program.Uniform("uCurl"), 1, in.Curl)
	p.draw()
	return nil
}
