package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"go.uber.org/zap"

	"fluidsim/core"
)

// Target is one render destination: a single color texture attached to a
// framebuffer object. Texture storage is immutable after allocation, so a
// Target is never resized in place; it is released and recreated.
type Target struct {
	Tex    uint32
	FBO    uint32
	Width  int
	Height int
	Format FieldFormat
}

// TexelW returns 1/width, the horizontal stencil step for this target.
func (t *Target) TexelW() float32 { return 1 / float32(t.Width) }

// TexelH returns 1/height, the vertical stencil step.
func (t *Target) TexelH() float32 { return 1 / float32(t.Height) }

// Release deletes the GL objects. Guarded so repeated calls are no-ops.
func (t *Target) Release() {
	if t.FBO != 0 {
		gl.DeleteFramebuffers(1, &t.FBO)
		t.FBO = 0
	}
	if t.Tex != 0 {
		gl.DeleteTextures(1, &t.Tex)
		t.Tex = 0
	}
}

// TargetPair is a double-buffered field: two equally sized, equally
// formatted targets, one logically "read" and one "write". A pass samples
// the read side, renders into the write side, then Swap makes the written
// side current. A pass must never sample the target it renders into; the
// pair exists so that invariant never has to be juggled by hand.
type TargetPair struct {
	read  *Target
	write *Target
	swaps uint64
}

func newTargetPair(read, write *Target) *TargetPair {
	return &TargetPair{read: read, write: write}
}

// Read is the target holding the field's current contents.
func (p *TargetPair) Read() *Target { return p.read }

// Write is the target the next field-to-field pass renders into.
func (p *TargetPair) Write() *Target { return p.write }

// Texture is the externally visible current texture: always the read side.
func (p *TargetPair) Texture() uint32 { return p.read.Tex }

// Swap exchanges the read and write roles. After Swap, Texture reflects
// the side most recently written.
func (p *TargetPair) Swap() {
	p.read, p.write = p.write, p.read
	p.swaps++
}

// Swaps counts role exchanges since creation. Surfaced by the stats
// channel and useful for asserting pass sequencing.
func (p *TargetPair) Swaps() uint64 { return p.swaps }

// Release deletes both targets.
func (p *TargetPair) Release() {
	p.read.Release()
	p.write.Release()
}

// TargetManager allocates and caches render targets for one GL context.
// All access happens on the context's thread; the maps need no locking.
type TargetManager struct {
	ctx     *Context
	log     *zap.Logger
	targets map[string]*Target
	pairs   map[string]*TargetPair
	cleaned bool
}

// NewTargetManager creates a manager bound to ctx. Its lifetime is tied to
// the context: construct after NewContext, Cleanup before Context.Cleanup.
func NewTargetManager(ctx *Context, log *zap.Logger) *TargetManager {
	return &TargetManager{
		ctx:     ctx,
		log:     log,
		targets: make(map[string]*Target),
		pairs:   make(map[string]*TargetPair),
	}
}

// CreateTarget allocates a texture in the requested format, attaches it to
// a fresh framebuffer and validates completeness. On an incomplete
// framebuffer both objects are deleted before the error is returned, so no
// half-built target leaks.
func (m *TargetManager) CreateTarget(width, height int, format FieldFormat) (*Target, error) {
	if m.cleaned {
		return nil, &core.ResourceError{
			Reason: "target manager already cleaned up",
			Width:  width, Height: height, Format: format.String(),
		}
	}
	if width <= 0 || height <= 0 || width > m.ctx.MaxTextureSize() || height > m.ctx.MaxTextureSize() {
		return nil, &core.ResourceError{
			Reason: fmt.Sprintf("dimensions out of range (max %d)", m.ctx.MaxTextureSize()),
			Width:  width, Height: height, Format: format.String(),
		}
	}

	internal, xtype := format.glInternalFormat()
	filter := int32(gl.NEAREST)
	if m.ctx.LinearFilterable(format) {
		filter = gl.LINEAR
	}

	t := &Target{Width: width, Height: height, Format: format}

	gl.GenTextures(1, &t.Tex)
	gl.BindTexture(gl.TEXTURE_2D, t.Tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(width), int32(height), 0, gl.RGBA, xtype, nil)

	gl.GenFramebuffers(1, &t.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.Tex, 0)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		t.Release()
		return nil, &core.ResourceError{
			Reason: completenessReason(status),
			Width:  width, Height: height, Format: format.String(),
		}
	}

	// Fields start at rest: zero the fresh texture.
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	return t, nil
}

// CreateTargetPair allocates two independent complete targets as a
// double-buffered field.
func (m *TargetManager) CreateTargetPair(width, height int, format FieldFormat) (*TargetPair, error) {
	read, err := m.CreateTarget(width, height, format)
	if err != nil {
		return nil, err
	}
	write, err := m.CreateTarget(width, height, format)
	if err != nil {
		read.Release()
		return nil, err
	}
	return newTargetPair(read, write), nil
}

// Target returns the cached target under id, creating it on first use.
// A second call with the same id returns the first result untouched.
func (m *TargetManager) Target(id string, width, height int, format FieldFormat) (*Target, error) {
	if t, ok := m.targets[id]; ok {
		return t, nil
	}
	t, err := m.CreateTarget(width, height, format)
	if err != nil {
		return nil, err
	}
	m.targets[id] = t
	return t, nil
}

// Pair returns the cached pair under id, creating it on first use.
func (m *TargetManager) Pair(id string, width, height int, format FieldFormat) (*TargetPair, error) {
	if p, ok := m.pairs[id]; ok {
		return p, nil
	}
	p, err := m.CreateTargetPair(width, height, format)
	if err != nil {
		return nil, err
	}
	m.pairs[id] = p
	return p, nil
}

// IsComplete re-checks a target's framebuffer completeness.
func (m *TargetManager) IsComplete(t *Target) bool {
	if t == nil || t.FBO == 0 {
		return false
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.FBO)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return status == gl.FRAMEBUFFER_COMPLETE
}

// Bind makes t the render destination and sets the viewport to its size.
// Bind(nil) selects the default framebuffer at the context's dimensions.
func (m *TargetManager) Bind(t *Target) {
	if t == nil {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, int32(m.ctx.Width()), int32(m.ctx.Height()))
		return
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.FBO)
	gl.Viewport(0, 0, int32(t.Width), int32(t.Height))
}

// Resize invalidates the id caches. GPU resources are not deleted here:
// callers holding pairs or targets retain direct references and remain
// responsible for releasing and recreating them at the new size.
func (m *TargetManager) Resize(width, height int) {
	m.targets = make(map[string]*Target)
	m.pairs = make(map[string]*TargetPair)
}

// Cleanup releases everything still cached. Idempotent.
func (m *TargetManager) Cleanup() {
	if m.cleaned {
		return
	}
	m.cleaned = true

	for _, t := range m.targets {
		t.Release()
	}
	for _, p := range m.pairs {
		p.Release()
	}
	m.targets = nil
	m.pairs = nil
}

// completenessReason maps a framebuffer status to the specific failure.
func completenessReason(status uint32) string {
	switch status {
	case gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT:
		return "incomplete attachment"
	case gl.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT:
		return "missing attachment"
	case gl.FRAMEBUFFER_UNSUPPORTED:
		return "unsupported attachment combination"
	case gl.FRAMEBUFFER_INCOMPLETE_DRAW_BUFFER:
		return "incomplete draw buffer"
	case gl.FRAMEBUFFER_INCOMPLETE_READ_BUFFER:
		return "incomplete read buffer"
	case gl.FRAMEBUFFER_INCOMPLETE_MULTISAMPLE:
		return "inconsistent multisample counts"
	default:
		return fmt.Sprintf("incomplete (status 0x%x)", status)
	}
}
