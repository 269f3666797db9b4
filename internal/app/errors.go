package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrQuit signals that the application should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrNoSuchNode is returned when selecting a name the scene lacks.
	ErrNoSuchNode = errors.New("no such node")

	// ErrNoSuchField is returned for a section and label with no visible
	// field.
	ErrNoSuchField = errors.New("no such field")
)

// OperationError represents an error that occurred during a specific
// operation.
type OperationError struct {
	Op     string // e.g. "reload", "select", "edit"
	Target string // e.g. a file path or node name
	Err    error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

func (e *OperationError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
