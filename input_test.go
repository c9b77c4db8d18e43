package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCursor(t *testing.T) {
	x, y := normalizeCursor(0, 0, 800, 600)
	assert.InDelta(t, 0.0, x, 1e-6)
	assert.InDelta(t, 1.0, y, 1e-6, "window y grows downward, field y grows upward")

	x, y = normalizeCursor(800, 600, 800, 600)
	assert.InDelta(t, 1.0, x, 1e-6)
	assert.InDelta(t, 0.0, y, 1e-6)

	x, y = normalizeCursor(400, 300, 800, 600)
	assert.InDelta(t, 0.5, x, 1e-6)
	assert.InDelta(t, 0.5, y, 1e-6)
}
