package health

import "errors"

// ErrCheckTimeout wraps the error of a check that ran past the probe timeout.
var ErrCheckTimeout = errors.New("health: check timeout")
