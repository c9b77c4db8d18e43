package core

import "fmt"

// ContextError means no usable rendering context could be acquired, or the
// context was lost after acquisition. Fatal to the whole solver.
type ContextError struct {
	Reason string
	Err    error
}

func (e *ContextError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("graphics context: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("graphics context: %s", e.Reason)
}

func (e *ContextError) Unwrap() error { return e.Err }

// ShaderError carries the driver diagnostic log and the offending source for
// a failed shader compile or program link.
type ShaderError struct {
	Stage  string // "vertex", "fragment" or "program"
	Log    string
	Source string
}

func (e *ShaderError) Error() string {
	return fmt.Sprintf("shader %s failed: %s", e.Stage, e.Log)
}

// ResourceError means a render target or texture could not be created or
// failed its completeness check.
type ResourceError struct {
	Reason string
	Width  int
	Height int
	Format string
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("render target %dx%d (%s): %s", e.Width, e.Height, e.Format, e.Reason)
}

// PassNotInitializedError reports an Execute call on a pass that was never
// successfully constructed. Programming error, but detected rather than
// letting the pass read invalid GL state.
type PassNotInitializedError struct {
	Pass string
}

func (e *PassNotInitializedError) Error() string {
	return fmt.Sprintf("%s not properly initialized", e.Pass)
}

// MissingInputError reports a pass invoked without a texture it requires.
// Detected before any GL call is issued.
type MissingInputError struct {
	Pass  string
	Input string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("%s: missing required input %q", e.Pass, e.Input)
}
