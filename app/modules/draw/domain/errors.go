package drawdomain

import "errors"

var (
	// ErrInsufficientPlayers is returned when fewer than two players are eligible.
	ErrInsufficientPlayers = errors.New("at least two playing attendees are required for a draw")

	// ErrPartialSchedule is returned instead of a warning when strict scheduling is enabled.
	ErrPartialSchedule = errors.New("one or more pairs could not reach the match quota")
)
