package simulation

import (
	"github.com/go-gl/gl/v3.3-core/gl"

	"fluidsim/core"
	"fluidsim/rendering/opengl/shaders"
)

// DisplayPass samples the dye field onto the visible surface with a
// brightness/contrast adjustment. The only pass that composites with
// alpha blending.
type DisplayPass struct {
	basePass
}

func NewDisplayPass(cache *shaders.Cache) (*DisplayPass, error) {
	base, err := newBasePass("display", cache, shaders.DisplayFragment)
	if err != nil {
		return nil, err
	}
	return &DisplayPass{basePass: base}, nil
}

func (p *DisplayPass) Execute(in *PassInputs) error {
	if err := p.ensureReady(); err != nil {
		return err
	}
	if in.Dye == 0 {
		return &core.MissingInputError{Pass: p.name, Input: "dye"}
	}

	p.begin(in)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Uniform1f(p.program.Uniform("uBrightness"), in.Brightness)
	gl.Uniform1f(p.program.Uniform("uContrast"), in.Contrast)
	bindTexture(p.program.Uniform("uTexture"), 0, in.Dye)
	p.draw()
	return nil
}
