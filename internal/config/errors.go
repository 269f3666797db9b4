package config

import (
	"errors"
	"fmt"
)

// Configuration errors.
var (
	// ErrInvalid is returned when a setting is out of range.
	ErrInvalid = errors.New("invalid setting")

	// ErrEnv is returned when an environment variable cannot be parsed.
	ErrEnv = errors.New("invalid environment")
)

// ParseError reports a malformed config file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
