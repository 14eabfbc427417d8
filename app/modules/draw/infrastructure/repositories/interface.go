package drawdb

import (
	"context"

	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for draw persistence.
type Repository interface {
	// AcquireEventLock serializes draw runs of one event until the
	// surrounding transaction ends.
	AcquireEventLock(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) error

	// GetDrawForEvent loads the draw of an event with its pairs and matches.
	GetDrawForEvent(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) (*Draw, error)

	GetDrawByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Draw, error)

	// GetLatestPairsBefore returns the pairs of the most recent draw of the
	// league strictly before the event date. Empty when there is none.
	GetLatestPairsBefore(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]DrawPair, error)

	// ListPairs returns the pairs of the event's draw. Empty when there is none.
	ListPairs(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]DrawPair, error)

	// DeleteDrawForEvent removes the event's draw and, by cascade, its pairs
	// and matches. Returns the number of draws removed.
	DeleteDrawForEvent(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) (int, error)

	// DeleteDrawByID returns the removed draw or ErrNotFound.
	DeleteDrawByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Draw, error)

	// InsertDraw stores a draw with its pairs and matches.
	InsertDraw(ctx context.Context, db bun.IDB, draw *Draw, pairs []*DrawPair, matches []*DrawMatch) error
}
