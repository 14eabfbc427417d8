package drawdb

import "errors"

// ErrNotFound is returned when no draw matches the lookup.
var ErrNotFound = errors.New("draw not found")
