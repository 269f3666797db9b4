package ui

import "errors"

// UI errors.
var (
	// ErrUnknownWidget is returned for an id the store never allocated.
	ErrUnknownWidget = errors.New("unknown widget")

	// ErrNotEditable is returned when editing a container or a hidden field.
	ErrNotEditable = errors.New("widget not editable")

	// ErrWrongKind is returned when an edit's value does not fit the field.
	ErrWrongKind = errors.New("value does not fit field")
)
