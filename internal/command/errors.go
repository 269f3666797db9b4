package command

import "errors"

// Command errors.
var (
	// ErrNotExecuted is returned when undoing a command that never ran.
	ErrNotExecuted = errors.New("command was not executed")

	// ErrMalformed is returned when a wire-encoded command cannot be decoded.
	ErrMalformed = errors.New("malformed command")
)
