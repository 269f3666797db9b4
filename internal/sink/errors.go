package sink

import "errors"

// Sink errors.
var (
	// ErrClosed is returned when sending to a sink whose session has ended.
	ErrClosed = errors.New("command sink closed")

	// ErrQueueFull is returned when the sink's queue cannot accept more messages.
	ErrQueueFull = errors.New("command sink queue full")
)
