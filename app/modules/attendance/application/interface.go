package attendanceservice

import (
	"context"
	"time"

	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
)

// Service exposes the attendance snapshot of each event.
type Service interface {
	EligiblePlayers(ctx context.Context, event sharedtypes.EventKey) ([]sharedtypes.RankedPlayer, error)
	StatusOf(ctx context.Context, event sharedtypes.EventKey, player sharedtypes.PlayerID) (sharedtypes.AttendanceStatus, error)
	RecordStatus(ctx context.Context, cmd RecordStatusCommand) error
	SetRankingPoints(ctx context.Context, league sharedtypes.LeagueID, player sharedtypes.PlayerID, points float64) error
}

// RecordStatusCommand mirrors one response from the attendance system.
type RecordStatusCommand struct {
	Event       sharedtypes.EventKey
	Player      sharedtypes.PlayerID
	Status      sharedtypes.AttendanceStatus
	RespondedAt time.Time
}
