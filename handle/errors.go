package handle

import "errors"

// ErrCapacityExceeded is returned when a requested capacity does not fit the
// 32-bit identifier/index space. State is left unmodified.
var ErrCapacityExceeded = errors.New("handle: capacity exceeds 32-bit id/index space")
