// Package attendanceevents defines the attendance topics consumed from the
// external attendance and membership systems.
package attendanceevents

import (
	"time"

	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
)

const (
	// AttendanceStatusUpdatedV1 is published when a player answers an event invitation.
	AttendanceStatusUpdatedV1 = "attendance.status.updated.v1"
	// MemberRankingUpdatedV1 is published when a member's ranking points change.
	MemberRankingUpdatedV1 = "attendance.member.ranking.updated.v1"
)

// StreamName is the JetStream stream holding every attendance subject.
const StreamName = "attendance"

// StreamSubjects lists the subjects bound to StreamName.
var StreamSubjects = []string{"attendance.>"}

type StatusUpdatedPayloadV1 struct {
	LeagueID    sharedtypes.LeagueID         `json:"league_id"`
	EventDate   sharedtypes.EventDate        `json:"event_date"`
	PlayerID    sharedtypes.PlayerID         `json:"player_id"`
	Status      sharedtypes.AttendanceStatus `json:"status"`
	RespondedAt time.Time                    `json:"responded_at"`
}

type MemberRankingUpdatedPayloadV1 struct {
	LeagueID      sharedtypes.LeagueID `json:"league_id"`
	PlayerID      sharedtypes.PlayerID `json:"player_id"`
	RankingPoints float64              `json:"ranking_points"`
}
