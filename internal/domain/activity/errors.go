package activity

import "errors"

// ErrInvalidInput indicates an invalid activity entry.
var ErrInvalidInput = errors.New("invalid activity entry")
