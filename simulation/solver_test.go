package simulation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fluidsim/core"
)

// A solver whose fields were released (the state a failed Resize leaves
// behind) must refuse the next tick with an error instead of
// dereferencing a nil field pair.
func TestExecuteWithReleasedFieldsErrors(t *testing.T) {
	s := &Solver{pace: newPacer(60)}
	s.releaseFields()

	err := s.Execute(0.016)
	require.Error(t, err)

	var notInit *core.PassNotInitializedError
	require.True(t, errors.As(err, &notInit), "got %v", err)
	assert.Equal(t, "solver not properly initialized", err.Error())
}

func TestExecuteAfterCleanupErrors(t *testing.T) {
	s := &Solver{pace: newPacer(60), cleaned: true}

	err := s.Execute(0.016)
	var notInit *core.PassNotInitializedError
	require.True(t, errors.As(err, &notInit))
}
