package inspector

import "errors"

// Inspector errors.
var (
	// ErrSessionEnded is returned when the command sink can no longer accept
	// commands. The editing session is over; callers must not continue.
	ErrSessionEnded = errors.New("editing session ended")

	// ErrDuplicateWidget is returned when two fields or sections claim the
	// same widget.
	ErrDuplicateWidget = errors.New("widget already bound")

	// ErrNoWidget is returned when a field or section has the zero widget id.
	ErrNoWidget = errors.New("missing widget id")
)
