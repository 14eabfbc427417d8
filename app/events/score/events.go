// Package scoreevents defines the scoring topics and payloads.
package scoreevents

import (
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
)

// Requests.
const (
	ScoreSubmitRequestedV1        = "score.submit.requested.v1"
	ScoreManualBlowoutRequestedV1 = "score.blowout.manual.requested.v1"
	ScoreLeagueResetRequestedV1   = "score.league.reset.requested.v1"
)

// Outcomes.
const (
	ScoreSubmittedV1       = "score.submitted.v1"
	ScoreFailedV1          = "score.failed.v1"
	ScoreBlowoutRecordedV1 = "score.blowout.recorded.v1"
	ScoreLeagueResetV1     = "score.league.reset.v1"
)

const StreamName = "score"

var StreamSubjects = []string{"score.>"}

type ScoreSubmitRequestedPayloadV1 struct {
	LeagueID        sharedtypes.LeagueID   `json:"league_id"`
	EventDate       sharedtypes.EventDate  `json:"event_date"`
	PlayerID        sharedtypes.PlayerID   `json:"player_id"`
	Victories       int                    `json:"victories"`
	Defeats         int                    `json:"defeats"`
	AppliedVictims  []sharedtypes.PlayerID `json:"applied_victims"`
	BBQParticipated bool                   `json:"bbq_participated"`
	Confirmed       bool                   `json:"confirmed"`
}

type ScoreManualBlowoutRequestedPayloadV1 struct {
	LeagueID    sharedtypes.LeagueID   `json:"league_id"`
	EventDate   sharedtypes.EventDate  `json:"event_date"`
	Appliers    []sharedtypes.PlayerID `json:"appliers"`
	Victims     []sharedtypes.PlayerID `json:"victims"`
	RequestedBy sharedtypes.PlayerID   `json:"requested_by,omitempty"`
}

type ScoreLeagueResetRequestedPayloadV1 struct {
	LeagueID    sharedtypes.LeagueID `json:"league_id"`
	Confirm     bool                 `json:"confirm"`
	RequestedBy sharedtypes.PlayerID `json:"requested_by,omitempty"`
}

type ScoreSubmittedPayloadV1 struct {
	LeagueID         sharedtypes.LeagueID   `json:"league_id"`
	EventDate        sharedtypes.EventDate  `json:"event_date"`
	PlayerID         sharedtypes.PlayerID   `json:"player_id"`
	TotalPoints      float64                `json:"total_points"`
	Recomputed       []sharedtypes.PlayerID `json:"recomputed,omitempty"`
	FailedRecomputes []sharedtypes.PlayerID `json:"failed_recomputes,omitempty"`
}

type ScoreFailedPayloadV1 struct {
	LeagueID  sharedtypes.LeagueID  `json:"league_id"`
	EventDate sharedtypes.EventDate `json:"event_date,omitempty"`
	PlayerID  sharedtypes.PlayerID  `json:"player_id,omitempty"`
	Reason    string                `json:"reason"`
}

type ScoreBlowoutRecordedPayloadV1 struct {
	LeagueID         sharedtypes.LeagueID   `json:"league_id"`
	EventDate        sharedtypes.EventDate  `json:"event_date"`
	Appliers         []sharedtypes.PlayerID `json:"appliers"`
	Victims          []sharedtypes.PlayerID `json:"victims"`
	Recomputed       []sharedtypes.PlayerID `json:"recomputed,omitempty"`
	FailedRecomputes []sharedtypes.PlayerID `json:"failed_recomputes,omitempty"`
}

type ScoreLeagueResetPayloadV1 struct {
	LeagueID        sharedtypes.LeagueID `json:"league_id"`
	BlowoutsDeleted int                  `json:"blowouts_deleted"`
	ScoresReset     int                  `json:"scores_reset"`
}
