package simulation

import (
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"fluidsim/core"
	"fluidsim/rendering/opengl/shaders"
)

// SplatPass injects a localized, exponentially decaying contribution into
// a field around a normalized point: pointer motion scaled by the splat
// force into velocity, a dye color at full strength into density.
type SplatPass struct {
	basePass
}

func NewSplatPass(cache *shaders.Cache) (*SplatPass, error) {
	base, err := newBasePass("splat", cache, shaders.SplatFragment)
	if err != nil {
		return nil, err
	}
	return &SplatPass{basePass: base}, nil
}

func (p *SplatPass) Execute(in *PassInputs) error {
	if err := p.ensureReady(); err != nil {
		return err
	}
	if in.Source == 0 {
		return &core.MissingInputError{Pass: p.name, Input: "target field"}
	}

	aspect := in.Aspect
	if aspect == 0 {
		aspect = 1
	}

	p.begin(in)
	gl.Uniform1f(p.program.Uniform("uAspect"), aspect)
	gl.Uniform3f(p.program.Uniform("uColor"), in.Color.X(), in.Color.Y(), in.Color.Z())
	gl.Uniform2f(p.program.Uniform("uPoint"), in.Point.X(), in.Point.Y())
	gl.Uniform1f(p.program.Uniform("uRadius"), correctRadius(in.Radius))
	bindTexture(p.program.Uniform("uTarget"), 0, in.Source)
	p.draw()
	return nil
}

// correctRadius converts the configured radius (already clamped into
// [0.01,1.0]) into UV-space falloff for the exp kernel.
func correctRadius(radius float32) float32 {
	r := radius / 100
	if r < 0.0001 {
		r = 0.0001
	}
	return r
}

// splat is one queued injection, consumed by the next Execute.
type splat struct {
	point mgl32.Vec2
	delta mgl32.Vec2
	color mgl32.Vec3
}

// speedScale brightens pointer splats with drag speed so fast strokes
// leave a stronger trail. Capped so one wild event cannot blow the dye
// out.
func speedScale(speed float32) float32 {
	return 1 + math32.Min(speed*20, 2)
}

// generateColor picks a saturated hue off the color wheel, dimmed so
// repeated splats accumulate rather than saturate immediately.
func generateColor() mgl32.Vec3 {
	c := hsvToRGB(rand.Float32(), 1.0, 1.0)
	return c.Mul(0.15)
}

// hsvToRGB converts an HSV triple (h in [0,1)) to RGB.
func hsvToRGB(h, s, v float32) mgl32.Vec3 {
	i := math32.Floor(h * 6)
	f := h*6 - i
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	switch int(i) % 6 {
	case 0:
		return mgl32.Vec3{v, t, p}
	case 1:
		return mgl32.Vec3{q, v, p}
	case 2:
		return mgl32.Vec3{p, v, t}
	case 3:
		return mgl32.Vec3{p, q, v}
	case 4:
		return mgl32.Vec3{t, p, v}
	default:
		return mgl32.Vec3{v, p, q}
	}
}
