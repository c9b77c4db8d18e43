package simulation

import (
	"github.com/go-gl/gl/v3.3-core/gl"

	"fluidsim/core"
	"fluidsim/rendering/opengl/shaders"
)

// PressurePass runs one Jacobi iteration of the pressure Poisson
// equation: each cell becomes the neighbor average minus local
// divergence, scaled by 0.25. The solver sequences N iterations per tick,
// ping-ponging the pressure pair between them.
type PressurePass struct {
	basePass
}

func NewPressurePass(cache *shaders.Cache) (*PressurePass, error) {
	base, err := newBasePass("pressure", cache, shaders.PressureFragment)
	if err != nil {
		return nil, err
	}
	return &PressurePass{basePass: base}, nil
}

func (p *PressurePass) Execute(in *PassInputs) error {
	if err := p.ensureReady(); err != nil {
		return err
	}
	if in.Pressure == 0 {
		return &core.MissingInputError{Pass: p.name, Input: "pressure"}
	}
	if in.Divergence == 0 {
		return &core.MissingInputError{Pass: p.name, Input: "divergence"}
	}

	p.begin(in)
	gl.Uniform1f(p.program.Uniform("uOldScale"), in.OldPressureScale)
	bindTexture(p.program.Uniform("uPressure"), 0, in.Pressure)
	bindTexture(p.program.Uniform("uDivergence"), 1, in.Divergence)
	p.draw()
	return nil
}
