package opengl

import (
	"errors"
	"testing"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fluidsim/core"
)

func TestTargetPairSwapRoles(t *testing.T) {
	a := &Target{Tex: 1, Width: 64, Height: 64}
	b := &Target{Tex: 2, Width: 64, Height: 64}
	p := newTargetPair(a, b)

	assert.Same(t, a, p.Read())
	assert.Same(t, b, p.Write())
	assert.Equal(t, uint32(1), p.Texture(), "current texture is the read side")

	p.Swap()
	assert.Same(t, b, p.Read())
	assert.Same(t, a, p.Write())
	assert.Equal(t, uint32(2), p.Texture(), "swap makes the written side current")
	assert.Equal(t, uint64(1), p.Swaps())

	// An even number of swaps restores the original roles.
	p.Swap()
	assert.Same(t, a, p.Read())
	assert.Equal(t, uint32(1), p.Texture())
	assert.Equal(t, uint64(2), p.Swaps())
}

func TestTargetPairNeverAliases(t *testing.T) {
	p := newTargetPair(&Target{Tex: 1}, &Target{Tex: 2})
	for i := 0; i < 7; i++ {
		assert.NotEqual(t, p.Read().Tex, p.Write().Tex)
		p.Swap()
	}
}

func TestTexelSize(t *testing.T) {
	tgt := &Target{Width: 512, Height: 256}
	assert.InDelta(t, 1.0/512, tgt.TexelW(), 1e-9)
	assert.InDelta(t, 1.0/256, tgt.TexelH(), 1e-9)
}

// Release on an already released (or never allocated) target must not
// touch GL.
func TestReleaseZeroTargetIsSafe(t *testing.T) {
	tgt := &Target{}
	tgt.Release()
	tgt.Release()
	assert.Zero(t, tgt.Tex)
	assert.Zero(t, tgt.FBO)
}

// Creation calls after Cleanup must error out instead of writing into the
// released caches.
func TestManagerRefusesCreateAfterCleanup(t *testing.T) {
	m := NewTargetManager(nil, zap.NewNop())
	m.Cleanup()

	var resErr *core.ResourceError

	_, err := m.CreateTarget(64, 64, FormatFloat16)
	require.Error(t, err)
	require.True(t, errors.As(err, &resErr))

	_, err = m.Target("velocity", 64, 64, FormatFloat16)
	require.Error(t, err)
	require.True(t, errors.As(err, &resErr))

	_, err = m.Pair("dye", 64, 64, FormatFloat16)
	require.Error(t, err)
	require.True(t, errors.As(err, &resErr))

	m.Cleanup() // still idempotent
}

func TestCompletenessReasons(t *testing.T) {
	cases := map[uint32]string{
		gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT:         "incomplete attachment",
		gl.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT: "missing attachment",
		gl.FRAMEBUFFER_UNSUPPORTED:                   "unsupported attachment combination",
	}
	for status, want := range cases {
		assert.Equal(t, want, completenessReason(status))
	}

	assert.Contains(t, completenessReason(0xdead), "0xdead")
}

func TestFieldFormatStrings(t *testing.T) {
	assert.Equal(t, "rgba32f", FormatFloat32.String())
	assert.Equal(t, "rgba16f", FormatFloat16.String())
	assert.Equal(t, "rgba8", FormatUnorm8.String())
}
