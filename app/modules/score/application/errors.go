package scoreservice

import "errors"

var (
	// ErrPlayerNotEligible is returned when a player who declined or never
	// responded tries to submit a score.
	ErrPlayerNotEligible = errors.New("player is not eligible to submit a score")

	// ErrConfirmationRequired guards the league reset.
	ErrConfirmationRequired = errors.New("league reset requires explicit confirmation")
)
