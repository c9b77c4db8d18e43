package opengl

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"fluidsim/core"
)

// FieldFormat is the pixel format used for simulation field textures.
// Float32 gives the most headroom, Unorm8 is the lowest common denominator.
type FieldFormat int

const (
	FormatUnorm8 FieldFormat = iota
	FormatFloat16
	FormatFloat32
)

func (f FieldFormat) String() string {
	switch f {
	case FormatFloat32:
		return "rgba32f"
	case FormatFloat16:
		return "rgba16f"
	default:
		return "rgba8"
	}
}

// glInternalFormat returns the GL internal format and pixel type for f.
func (f FieldFormat) glInternalFormat() (int32, uint32) {
	switch f {
	case FormatFloat32:
		return gl.RGBA32F, gl.FLOAT
	case FormatFloat16:
		return gl.RGBA16F, gl.HALF_FLOAT
	default:
		return gl.RGBA8, gl.UNSIGNED_BYTE
	}
}

// ContextConfig describes the window and context to acquire.
type ContextConfig struct {
	Width     int
	Height    int
	Title     string
	VSync     bool
	Invisible bool // offscreen-style window, used by tooling
}

// Context owns the GLFW window and the GL context bound to it, along with
// the capability flags detected after acquisition. All GL work must happen
// on the goroutine that created the Context.
type Context struct {
	window *glfw.Window
	log    *zap.Logger

	width  int
	height int

	maxTextureSize      int32
	floatRenderable     bool
	halfFloatRenderable bool
	linearFloat         bool

	glMajor, glMinor int
	cleaned          bool
}

// NewContext acquires a GL context, trying the highest profile first
// (4.1 core) and falling back to 3.3 core. Failing both is fatal.
func NewContext(cfg ContextConfig, log *zap.Logger) (*Context, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, &core.ContextError{Reason: "GLFW initialization failed", Err: err}
	}

	c := &Context{
		log:    log,
		width:  cfg.Width,
		height: cfg.Height,
	}

	window, major, minor, err := createWindow(cfg)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}
	c.window = window
	c.glMajor, c.glMinor = major, minor

	window.MakeContextCurrent()

	// On hi-DPI displays the framebuffer is larger than the requested
	// window size; fields and the viewport track framebuffer pixels.
	if fbWidth, fbHeight := window.GetFramebufferSize(); fbWidth > 0 && fbHeight > 0 {
		c.width, c.height = fbWidth, fbHeight
	}

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		c.Cleanup()
		return nil, &core.ContextError{Reason: "loading GL function pointers failed", Err: err}
	}

	c.detectCapabilities()
	c.setBaselineState()
	gl.Viewport(0, 0, int32(c.width), int32(c.height))

	log.Info("graphics context ready",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("profile", fmt.Sprintf("%d.%d core", c.glMajor, c.glMinor)),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.Int32("maxTextureSize", c.maxTextureSize),
		zap.Stringer("fieldFormat", c.PreferredFieldFormat()),
	)

	return c, nil
}

// createWindow walks the context version ladder from most to least capable.
func createWindow(cfg ContextConfig) (*glfw.Window, int, int, error) {
	versions := [][2]int{{4, 1}, {3, 3}}

	var lastErr error
	for _, v := range versions {
		glfw.DefaultWindowHints()
		glfw.WindowHint(glfw.ContextVersionMajor, v[0])
		glfw.WindowHint(glfw.ContextVersionMinor, v[1])
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
		glfw.WindowHint(glfw.Resizable, glfw.True)
		if cfg.Invisible {
			glfw.WindowHint(glfw.Visible, glfw.False)
		}

		window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
		if err == nil {
			return window, v[0], v[1], nil
		}
		lastErr = err
	}

	return nil, 0, 0, &core.ContextError{Reason: "no usable OpenGL context (tried 4.1 and 3.3 core)", Err: lastErr}
}

// detectCapabilities probes the limits and texture formats the solver cares
// about. Float renderability is established empirically: allocate a tiny
// texture in the candidate format, attach it to a throwaway framebuffer and
// check completeness. Drivers that merely tolerate float textures without
// being able to render into them fail this check.
func (c *Context) detectCapabilities() {
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &c.maxTextureSize)

	c.floatRenderable = probeRenderable(FormatFloat32)
	c.halfFloatRenderable = probeRenderable(FormatFloat16)

	// Core profile 3.3 mandates linear filtering for float formats, so it
	// tracks renderability here.
	c.linearFloat = c.floatRenderable || c.halfFloatRenderable
}

// probeRenderable builds a 4x4 framebuffer in the given format and reports
// whether it completes.
func probeRenderable(format FieldFormat) bool {
	internal, xtype := format.glInternalFormat()

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, 4, 4, 0, gl.RGBA, xtype, nil)

	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)

	complete := gl.CheckFramebufferStatus(gl.FRAMEBUFFER) == gl.FRAMEBUFFER_COMPLETE

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.DeleteFramebuffers(1, &fbo)
	gl.DeleteTextures(1, &tex)

	return complete
}

// setBaselineState establishes the draw state every pass relies on: no
// depth, stencil or culling, standard alpha blending.
func (c *Context) setBaselineState() {
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.STENCIL_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
}

// PreferredFieldFormat is the best texture format the hardware can render
// into: full float, then half float, then 8-bit.
func (c *Context) PreferredFieldFormat() FieldFormat {
	switch {
	case c.floatRenderable:
		return FormatFloat32
	case c.halfFloatRenderable:
		return FormatFloat16
	default:
		return FormatUnorm8
	}
}

// LinearFilterable reports whether the given format supports linear
// filtering on this context.
func (c *Context) LinearFilterable(format FieldFormat) bool {
	if format == FormatUnorm8 {
		return true
	}
	return c.linearFloat
}

// MaxTextureSize is the largest texture dimension the driver accepts.
func (c *Context) MaxTextureSize() int {
	return int(c.maxTextureSize)
}

// Width returns the current drawable width in pixels.
func (c *Context) Width() int { return c.width }

// Height returns the current drawable height in pixels.
func (c *Context) Height() int { return c.height }

// Window exposes the underlying GLFW window for event wiring.
func (c *Context) Window() *glfw.Window { return c.window }

// Resize updates the stored surface dimensions and the active viewport in
// one call.
func (c *Context) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.width = width
	c.height = height
	gl.Viewport(0, 0, int32(width), int32(height))
}

// IsLost reports whether the context is gone or the window was closed.
func (c *Context) IsLost() bool {
	return c.window == nil || c.window.ShouldClose()
}

// SwapBuffers presents the current frame.
func (c *Context) SwapBuffers() {
	if c.window != nil {
		c.window.SwapBuffers()
	}
}

// Cleanup destroys the window and shuts GLFW down. Safe to call more than
// once and safe after partial initialization.
func (c *Context) Cleanup() {
	if c.cleaned {
		return
	}
	c.cleaned = true

	if c.window != nil {
		c.window.Destroy()
		c.window = nil
	}
	glfw.Terminate()
}
