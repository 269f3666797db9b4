package script

import "errors"

// Script errors.
var (
	// ErrScript wraps Lua syntax and runtime errors.
	ErrScript = errors.New("script error")

	// ErrUsage marks host errors a script may catch with pcall, such as an
	// unknown node or field. Other host errors end the script.
	ErrUsage = errors.New("script usage")

	// ErrClosed is returned by Run after Close.
	ErrClosed = errors.New("script engine closed")
)
