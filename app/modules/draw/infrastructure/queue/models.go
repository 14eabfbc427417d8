package drawqueue

import (
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
)

// DrawRunJob runs the draw of an event when attendance closes. Uniqueness
// is keyed on the event only.
type DrawRunJob struct {
	LeagueID    sharedtypes.LeagueID  `json:"league_id" river:"unique"`
	EventDate   sharedtypes.EventDate `json:"event_date" river:"unique"`
	RequestedBy sharedtypes.PlayerID  `json:"requested_by,omitempty"`
}

// Kind returns the job type identifier for River
func (DrawRunJob) Kind() string { return "draw_run" }

// JobInfo represents information about a scheduled job (for debugging/monitoring)
type JobInfo struct {
	ID          int64  `json:"id"`
	State       string `json:"state"`
	ScheduledAt string `json:"scheduled_at"`
	Attempt     int    `json:"attempt"`
	MaxAttempts int    `json:"max_attempts"`
}
