package attendanceservice

import (
	"context"
	"errors"
	"fmt"

	attendancedb "github.com/Black-And-White-Club/league-night/app/modules/attendance/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/uptrace/bun"
)

// Resolver answers attendance questions inside a caller's transaction. The
// draw and score services use it so their reads see the same snapshot as
// their writes.
type Resolver struct {
	repo attendancedb.Repository
}

// NewResolver creates a Resolver over repo.
func NewResolver(repo attendancedb.Repository) *Resolver {
	return &Resolver{repo: repo}
}

// EligiblePlayers returns the confirmed and play_and_bbq attendees of event in
// response order. Players without a membership row get 0 points.
func (r *Resolver) EligiblePlayers(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]sharedtypes.RankedPlayer, error) {
	rows, err := r.repo.ListEligible(ctx, db, event)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible players: %w", err)
	}
	out := make([]sharedtypes.RankedPlayer, 0, len(rows))
	for _, row := range rows {
		out = append(out, sharedtypes.RankedPlayer{ID: row.PlayerID, Points: row.RankingPoints})
	}
	return out, nil
}

// SocialOnlyPlayers returns the bbq_only attendees of event.
func (r *Resolver) SocialOnlyPlayers(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]sharedtypes.PlayerID, error) {
	ids, err := r.repo.ListByStatus(ctx, db, event, sharedtypes.StatusBBQOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list social-only players: %w", err)
	}
	return ids, nil
}

// StatusOf returns StatusNoResponse for a player with no recorded response.
func (r *Resolver) StatusOf(ctx context.Context, db bun.IDB, event sharedtypes.EventKey, player sharedtypes.PlayerID) (sharedtypes.AttendanceStatus, error) {
	row, err := r.repo.GetStatus(ctx, db, event, player)
	if err != nil {
		if errors.Is(err, attendancedb.ErrNotFound) {
			return sharedtypes.StatusNoResponse, nil
		}
		return "", fmt.Errorf("failed to get attendance status: %w", err)
	}
	return row.Status, nil
}
