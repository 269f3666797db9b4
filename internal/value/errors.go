package value

import "errors"

// ErrParse is returned when text cannot be converted to a value.
var ErrParse = errors.New("cannot parse value")
