package repository

import "errors"

// ErrNotFound is returned when a requested value does not exist.
var ErrNotFound = errors.New("not found")
