// Package drawevents defines the draw topics and payloads.
package drawevents

import (
	"time"

	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
)

// Requests.
const (
	DrawRunRequestedV1      = "draw.run.requested.v1"
	DrawDeleteRequestedV1   = "draw.delete.requested.v1"
	DrawScheduleRequestedV1 = "draw.schedule.requested.v1"
)

// Outcomes.
const (
	DrawCompletedV1 = "draw.completed.v1"
	DrawFailedV1    = "draw.failed.v1"
	DrawDeletedV1   = "draw.deleted.v1"
	DrawScheduledV1 = "draw.scheduled.v1"
)

const StreamName = "draw"

var StreamSubjects = []string{"draw.>"}

type DrawRunRequestedPayloadV1 struct {
	LeagueID    sharedtypes.LeagueID  `json:"league_id"`
	EventDate   sharedtypes.EventDate `json:"event_date"`
	RequestedBy sharedtypes.PlayerID  `json:"requested_by,omitempty"`
	Seed        *int64                `json:"seed,omitempty"`
}

type DrawDeleteRequestedPayloadV1 struct {
	DrawID      sharedtypes.DrawID   `json:"draw_id"`
	RequestedBy sharedtypes.PlayerID `json:"requested_by,omitempty"`
}

// DrawScheduleRequestedPayloadV1 asks for a draw to run when attendance closes.
type DrawScheduleRequestedPayloadV1 struct {
	LeagueID    sharedtypes.LeagueID  `json:"league_id"`
	EventDate   sharedtypes.EventDate `json:"event_date"`
	ClosesAt    time.Time             `json:"closes_at"`
	RequestedBy sharedtypes.PlayerID  `json:"requested_by,omitempty"`
}

type PairV1 struct {
	Seq     int                   `json:"seq"`
	Tier    string                `json:"tier"`
	Player1 sharedtypes.PlayerID  `json:"player1_id"`
	Player2 *sharedtypes.PlayerID `json:"player2_id,omitempty"`
}

type MatchV1 struct {
	Seq   int    `json:"seq"`
	Tier  string `json:"tier"`
	PairA int    `json:"pair_a_seq"`
	PairB int    `json:"pair_b_seq"`
}

type ForcedRepeatV1 struct {
	Tier    string               `json:"tier"`
	Player1 sharedtypes.PlayerID `json:"player1_id"`
	Player2 sharedtypes.PlayerID `json:"player2_id"`
}

type ShortfallV1 struct {
	Tier      string `json:"tier"`
	PairSeq   int    `json:"pair_seq"`
	Scheduled int    `json:"scheduled"`
	Wanted    int    `json:"wanted"`
}

type DrawCompletedPayloadV1 struct {
	DrawID        sharedtypes.DrawID    `json:"draw_id"`
	LeagueID      sharedtypes.LeagueID  `json:"league_id"`
	EventDate     sharedtypes.EventDate `json:"event_date"`
	Seed          int64                 `json:"seed"`
	Pairs         []PairV1              `json:"pairs"`
	Matches       []MatchV1             `json:"matches"`
	ForcedRepeats []ForcedRepeatV1      `json:"forced_repeats,omitempty"`
	Shortfalls    []ShortfallV1         `json:"shortfalls,omitempty"`
}

type DrawFailedPayloadV1 struct {
	LeagueID  sharedtypes.LeagueID  `json:"league_id,omitempty"`
	EventDate sharedtypes.EventDate `json:"event_date,omitempty"`
	DrawID    sharedtypes.DrawID    `json:"draw_id,omitempty"`
	Reason    string                `json:"reason"`
}

type DrawDeletedPayloadV1 struct {
	DrawID    sharedtypes.DrawID    `json:"draw_id"`
	LeagueID  sharedtypes.LeagueID  `json:"league_id"`
	EventDate sharedtypes.EventDate `json:"event_date"`
}

type DrawScheduledPayloadV1 struct {
	LeagueID  sharedtypes.LeagueID  `json:"league_id"`
	EventDate sharedtypes.EventDate `json:"event_date"`
	RunAt     time.Time             `json:"run_at"`
	JobID     int64                 `json:"job_id"`
	Duplicate bool                  `json:"duplicate,omitempty"`
}
