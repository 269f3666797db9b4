package scene

import "errors"

// Scene errors.
var (
	// ErrStaleHandle is returned when a handle no longer refers to a live node.
	ErrStaleHandle = errors.New("stale node handle")

	// ErrPropertyMismatch is returned when a node variant lacks a property.
	ErrPropertyMismatch = errors.New("property not available on node")

	// ErrValueKind is returned when a value does not match a property's kind.
	ErrValueKind = errors.New("value kind does not match property")

	// ErrUnknownProperty is returned for an unrecognized property name.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrUnknownKind is returned for an unrecognized node kind.
	ErrUnknownKind = errors.New("unknown node kind")

	// ErrDuplicateID is returned when two nodes in a document share an id.
	ErrDuplicateID = errors.New("duplicate node id")
)
