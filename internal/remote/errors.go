package remote

import "errors"

// ErrBusy is returned to a client when the application loop does not take
// or answer its request in time.
var ErrBusy = errors.New("inspector busy")
