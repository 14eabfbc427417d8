package attendancedb

import (
	"time"

	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/uptrace/bun"
)

// Attendance is the latest response of a player for one event, mirrored from
// the external attendance system.
type Attendance struct {
	bun.BaseModel `bun:"table:attendance,alias:att"`

	LeagueID    sharedtypes.LeagueID         `bun:"league_id,pk"`
	EventDate   sharedtypes.EventDate        `bun:"event_date,pk,type:text"`
	PlayerID    sharedtypes.PlayerID         `bun:"player_id,pk"`
	Status      sharedtypes.AttendanceStatus `bun:"status,notnull"`
	RespondedAt time.Time                    `bun:"responded_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time                    `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// LeagueMember holds a player's current ranking points within a league.
type LeagueMember struct {
	bun.BaseModel `bun:"table:league_members,alias:lm"`

	LeagueID      sharedtypes.LeagueID `bun:"league_id,pk"`
	PlayerID      sharedtypes.PlayerID `bun:"player_id,pk"`
	RankingPoints float64              `bun:"ranking_points,notnull,default:0"`
	UpdatedAt     time.Time            `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// EligibleRow is one playing attendee joined with their ranking points.
type EligibleRow struct {
	PlayerID      sharedtypes.PlayerID `bun:"player_id"`
	RankingPoints float64              `bun:"ranking_points"`
}
