package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPassNotInitializedMessage(t *testing.T) {
	err := &PassNotInitializedError{Pass: "advection"}
	assert.Equal(t, "advection not properly initialized", err.Error())
}

func TestMissingInputMessage(t *testing.T) {
	err := &MissingInputError{Pass: "pressure", Input: "divergence"}
	assert.Contains(t, err.Error(), "pressure")
	assert.Contains(t, err.Error(), `"divergence"`)
}

func TestResourceErrorCarriesRequest(t *testing.T) {
	err := &ResourceError{Reason: "incomplete attachment", Width: 512, Height: 256, Format: "rgba16f"}
	assert.Contains(t, err.Error(), "512x256")
	assert.Contains(t, err.Error(), "rgba16f")
	assert.Contains(t, err.Error(), "incomplete attachment")
}

func TestContextErrorUnwraps(t *testing.T) {
	cause := errors.New("boom")
	wrapped := fmt.Errorf("starting renderer: %w", &ContextError{Reason: "GLFW initialization failed", Err: cause})

	var ctxErr *ContextError
	assert.True(t, errors.As(wrapped, &ctxErr))
	assert.ErrorIs(t, wrapped, cause)
}

func TestShaderErrorCarriesLog(t *testing.T) {
	err := &ShaderError{Stage: "fragment", Log: "0:12: 'foo' undeclared", Source: "void main() {}"}
	assert.Contains(t, err.Error(), "fragment")
	assert.Contains(t, err.Error(), "undeclared")
	assert.NotEmpty(t, err.Source)
}
