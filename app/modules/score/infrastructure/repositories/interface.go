package scoredb

import (
	"context"

	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/uptrace/bun"
)

// Repository defines the contract for score and blowout persistence.
type Repository interface {
	// AcquireEventLock serializes score writes of one event until the
	// surrounding transaction ends.
	AcquireEventLock(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) error

	// ListBlowouts returns every blowout record of the event, oldest first.
	ListBlowouts(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]BlowoutRecord, error)
	ListBlowoutsByApplier(ctx context.Context, db bun.IDB, event sharedtypes.EventKey, applier sharedtypes.PlayerID) ([]BlowoutRecord, error)
	DeleteBlowoutsByApplier(ctx context.Context, db bun.IDB, event sharedtypes.EventKey, applier sharedtypes.PlayerID) (int, error)
	InsertBlowouts(ctx context.Context, db bun.IDB, records []*BlowoutRecord) error

	// GetScore returns ErrNotFound when the player has no record for the event.
	GetScore(ctx context.Context, db bun.IDB, event sharedtypes.EventKey, player sharedtypes.PlayerID) (*ScoreRecord, error)
	UpsertScore(ctx context.Context, db bun.IDB, record *ScoreRecord) error
	// ListEventScores orders by total points descending, then player id.
	ListEventScores(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]ScoreRecord, error)
	// ListPlayerScores orders by event date ascending.
	ListPlayerScores(ctx context.Context, db bun.IDB, league sharedtypes.LeagueID, player sharedtypes.PlayerID) ([]ScoreRecord, error)

	// DeleteLeagueBlowouts and ResetLeagueScores clear every event of a league.
	DeleteLeagueBlowouts(ctx context.Context, db bun.IDB, league sharedtypes.LeagueID) (int, error)
	ResetLeagueScores(ctx context.Context, db bun.IDB, league sharedtypes.LeagueID) (int, error)
}
