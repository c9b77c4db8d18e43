package simulation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fluidsim/core"
)

// Zero-value passes must refuse to execute rather than issue GL calls
// against missing state.
func TestExecuteBeforeInitialization(t *testing.T) {
	passes := map[string]Pass{
		"advection":  &AdvectionPass{basePass{name: "advection"}},
		"curl":       &CurlPass{basePass{name: "curl"}},
		"vorticity":  &VorticityPass{basePass{name: "vorticity"}},
		"divergence": &DivergencePass{basePass{name: "divergence"}},
		"pressure":   &PressurePass{basePass{name: "pressure"}},
		"projection": &ProjectionPass{basePass{name: "projection"}},
		"splat":      &SplatPass{basePass{name: "splat"}},
		"display":    &DisplayPass{basePass{name: "display"}},
	}

	for name, p := range passes {
		err := p.Execute(&PassInputs{})
		require.Error(t, err, name)

		var notInit *core.PassNotInitializedError
		require.True(t, errors.As(err, &notInit), "%s: got %v", name, err)
		assert.Equal(t, name+" not properly initialized", err.Error())
	}
}

func TestEnsureReadyRequiresProgram(t *testing.T) {
	// ready flag alone is not enough; a pass without a program must
	// still refuse.
	b := basePass{name: "advection", ready: true}
	assert.Error(t, b.ensureReady())
}
