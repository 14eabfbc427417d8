package drawservice

import "errors"

var (
	// ErrInvalidRequest is returned for malformed draw commands.
	ErrInvalidRequest = errors.New("invalid draw request")

	// ErrSchedulingUnavailable is returned when no run scheduler is configured.
	ErrSchedulingUnavailable = errors.New("draw scheduling is not configured")
)
