package shaders

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"go.uber.org/zap"

	"fluidsim/core"
)

// Program is a linked GL program plus its resolved uniform and attribute
// locations. Immutable once created.
type Program struct {
	ID         uint32
	Uniforms   map[string]int32
	Attributes map[string]int32
}

// Uniform returns the location for name, or -1 if the shader does not
// declare it (GL treats -1 as a silent no-op, which is what we want for
// optional uniforms).
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.Uniforms[name]; ok {
		return loc
	}
	return -1
}

// Cache compiles and links shader programs and caches them, keyed either
// by an explicit id or by a content hash of the sources. One Cache serves
// every pass built against the same GL context; access is single threaded
// by the concurrency model, so the maps carry no lock.
type Cache struct {
	log      *zap.Logger
	programs map[string]*Program
	stages   map[string]uint32
	cleaned  bool
}

// NewCache creates an empty cache. Lifetime matches the owning context.
func NewCache(log *zap.Logger) *Cache {
	return &Cache{
		log:      log,
		programs: make(map[string]*Program),
		stages:   make(map[string]uint32),
	}
}

// Compile compiles one shader stage, reusing a previous compile of
// identical source. stage is gl.VERTEX_SHADER or gl.FRAGMENT_SHADER.
func (c *Cache) Compile(stage uint32, source string) (uint32, error) {
	if c.cleaned {
		return 0, &core.ShaderError{Stage: stageName(stage), Log: "shader cache already cleaned up"}
	}

	key := stageKey(stage, source)
	if shader, ok := c.stages[key]; ok {
		return shader, nil
	}

	shader := gl.CreateShader(stage)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		infoLog := shaderInfoLog(shader)
		gl.DeleteShader(shader)
		return 0, &core.ShaderError{Stage: stageName(stage), Log: infoLog, Source: source}
	}

	c.stages[key] = shader
	return shader, nil
}

// Link links a vertex and fragment stage into a program.
func (c *Cache) Link(vert, frag uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vert)
	gl.AttachShader(program, frag)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		infoLog := programInfoLog(program)
		gl.DeleteProgram(program)
		return 0, &core.ShaderError{Stage: "program", Log: infoLog}
	}

	return program, nil
}

// CreateProgram compiles, links and introspects a program. With id == ""
// the cache key is a hash of both sources, so identical source pairs share
// one program. A non-empty id is authoritative: a hit under that id is
// returned without recompiling even if the sources differ.
func (c *Cache) CreateProgram(vertSrc, fragSrc, id string) (*Program, error) {
	if c.cleaned {
		return nil, &core.ShaderError{Stage: "program", Log: "shader cache already cleaned up"}
	}

	key := id
	if key == "" {
		key = sourceKey(vertSrc, fragSrc)
	}
	if p, ok := c.programs[key]; ok {
		return p, nil
	}

	vert, err := c.Compile(gl.VERTEX_SHADER, vertSrc)
	if err != nil {
		return nil, err
	}
	frag, err := c.Compile(gl.FRAGMENT_SHADER, fragSrc)
	if err != nil {
		return nil, err
	}

	programID, err := c.Link(vert, frag)
	if err != nil {
		return nil, err
	}

	p := &Program{
		ID:         programID,
		Uniforms:   activeUniforms(programID),
		Attributes: activeAttributes(programID),
	}
	c.programs[key] = p

	c.log.Debug("program linked",
		zap.String("key", key),
		zap.Int("uniforms", len(p.Uniforms)),
	)
	return p, nil
}

// Cleanup deletes every cached program and compiled stage exactly once.
func (c *Cache) Cleanup() {
	if c.cleaned {
		return
	}
	c.cleaned = true

	for _, p := range c.programs {
		if p.ID != 0 {
			gl.DeleteProgram(p.ID)
		}
	}
	for _, s := range c.stages {
		if s != 0 {
			gl.DeleteShader(s)
		}
	}
	c.programs = nil
	c.stages = nil
}

// activeUniforms resolves every active uniform's location.
func activeUniforms(program uint32) map[string]int32 {
	var count int32
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORMS, &count)

	uniforms := make(map[string]int32, count)
	buf := make([]byte, 256)
	for i := int32(0); i < count; i++ {
		var length, size int32
		var xtype uint32
		gl.GetActiveUniform(program, uint32(i), int32(len(buf)), &length, &size, &xtype, &buf[0])
		name := string(buf[:length])
		uniforms[name] = gl.GetUniformLocation(program, gl.Str(name+"\x00"))
	}
	return uniforms
}

// activeAttributes resolves every active vertex attribute's location.
func activeAttributes(program uint32) map[string]int32 {
	var count int32
	gl.GetProgramiv(program, gl.ACTIVE_ATTRIBUTES, &count)

	attribs := make(map[string]int32, count)
	buf := make([]byte, 256)
	for i := int32(0); i < count; i++ {
		var length, size int32
		var xtype uint32
		gl.GetActiveAttrib(program, uint32(i), int32(len(buf)), &length, &size, &xtype, &buf[0])
		name := string(buf[:length])
		attribs[name] = gl.GetAttribLocation(program, gl.Str(name+"\x00"))
	}
	return attribs
}

func shaderInfoLog(shader uint32) string {
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return "no diagnostic log"
	}
	infoLog := make([]byte, logLength)
	gl.GetShaderInfoLog(shader, logLength, nil, &infoLog[0])
	return strings.TrimRight(string(infoLog), "\x00\n")
}

func programInfoLog(program uint32) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return "no diagnostic log"
	}
	infoLog := make([]byte, logLength)
	gl.GetProgramInfoLog(program, logLength, nil, &infoLog[0])
	return strings.TrimRight(string(infoLog), "\x00\n")
}

func stageName(stage uint32) string {
	switch stage {
	case gl.VERTEX_SHADER:
		return "vertex"
	case gl.FRAGMENT_SHADER:
		return "fragment"
	default:
		return fmt.Sprintf("stage 0x%x", stage)
	}
}

// sourceKey hashes a vertex/fragment source pair into a stable cache key.
func sourceKey(vertSrc, fragSrc string) string {
	h := fnv.New64a()
	h.Write([]byte(vertSrc))
	h.Write([]byte{0})
	h.Write([]byte(fragSrc))
	return fmt.Sprintf("src-%016x", h.Sum64())
}

func stageKey(stage uint32, source string) string {
	h := fnv.New64a()
	h.Write([]byte(source))
	return fmt.Sprintf("%s-%016x", stageName(stage), h.Sum64())
}
