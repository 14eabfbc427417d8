//go:build integration

package testutils

import (
	"context"
	"testing"
	"time"

	attendancedb "github.com/Black-And-White-Club/league-night/app/modules/attendance/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// SeedMembers stores the players' ranking points for league.
func SeedMembers(t *testing.T, ctx context.Context, db *bun.DB, league sharedtypes.LeagueID, players []sharedtypes.RankedPlayer) {
	t.Helper()
	repo := attendancedb.NewRepository(db)
	for _, p := range players {
		require.NoError(t, repo.UpsertMember(ctx, nil, &attendancedb.LeagueMember{
			LeagueID:      league,
			PlayerID:      p.ID,
			RankingPoints: p.Points,
		}))
	}
}

// SeedAttendance records status for every player of the event.
func SeedAttendance(t *testing.T, ctx context.Context, db *bun.DB, event sharedtypes.EventKey, status sharedtypes.AttendanceStatus, players ...sharedtypes.PlayerID) {
	t.Helper()
	repo := attendancedb.NewRepository(db)
	for _, p := range players {
		require.NoError(t, repo.UpsertStatus(ctx, nil, &attendancedb.Attendance{
			LeagueID:    event.LeagueID,
			EventDate:   event.Date,
			PlayerID:    p,
			Status:      status,
			RespondedAt: time.Now().UTC(),
		}))
	}
}

// IDs returns the ids of players in order.
func IDs(players []sharedtypes.RankedPlayer) []sharedtypes.PlayerID {
	out := make([]sharedtypes.PlayerID, len(players))
	for i, p := range players {
		out[i] = p.ID
	}
	return out
}
