package scoredb

import "errors"

// ErrNotFound is returned when no score record matches the lookup.
var ErrNotFound = errors.New("score record not found")
