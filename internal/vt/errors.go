package vt

import "errors"

// ErrInvalidSize is returned when a buffer is created or resized to fewer
// than one row or column.
var ErrInvalidSize = errors.New("invalid buffer size")
