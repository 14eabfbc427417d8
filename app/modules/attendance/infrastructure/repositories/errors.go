package attendancedb

import "errors"

// ErrNotFound is returned when no attendance row exists.
var ErrNotFound = errors.New("attendance not found")
