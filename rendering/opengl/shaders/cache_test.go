package shaders

import (
	"errors"
	"testing"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fluidsim/core"
)

func TestSourceKeyStable(t *testing.T) {
	k1 := sourceKey(BaseVertex, AdvectionFragment)
	k2 := sourceKey(BaseVertex, AdvectionFragment)
	assert.Equal(t, k1, k2)
}

func TestSourceKeyDistinguishesPairs(t *testing.T) {
	assert.NotEqual(t,
		sourceKey(BaseVertex, AdvectionFragment),
		sourceKey(BaseVertex, DivergenceFragment),
	)
	// Swapping stages must not collide.
	assert.NotEqual(t,
		sourceKey("a", "b"),
		sourceKey("b", "a"),
	)
}

func TestStageKeySeparatesStages(t *testing.T) {
	src := "void main() {}"
	assert.NotEqual(t,
		stageKey(gl.VERTEX_SHADER, src),
		stageKey(gl.FRAGMENT_SHADER, src),
	)
}

func TestUniformLookupMissing(t *testing.T) {
	p := &Program{Uniforms: map[string]int32{"uDt": 3}}
	assert.Equal(t, int32(3), p.Uniform("uDt"))
	assert.Equal(t, int32(-1), p.Uniform("uNope"), "missing uniforms resolve to the GL no-op location")
}

// Compile and CreateProgram after Cleanup must error out before touching
// the deleted maps or issuing GL calls.
func TestCacheRefusesUseAfterCleanup(t *testing.T) {
	c := NewCache(zap.NewNop())
	c.Cleanup()

	_, err := c.Compile(gl.VERTEX_SHADER, BaseVertex)
	require.Error(t, err)
	var shaderErr *core.ShaderError
	require.True(t, errors.As(err, &shaderErr))

	_, err = c.CreateProgram(BaseVertex, AdvectionFragment, "advection")
	require.Error(t, err)
	require.True(t, errors.As(err, &shaderErr))

	c.Cleanup() // still idempotent
}

func TestStageNames(t *testing.T) {
	assert.Equal(t, "vertex", stageName(gl.VERTEX_SHADER))
	assert.Equal(t, "fragment", stageName(gl.FRAGMENT_SHADER))
	assert.Contains(t, stageName(0x1234), "0x1234")
}
