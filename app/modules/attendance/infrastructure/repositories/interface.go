package attendancedb

import (
	"context"

	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/uptrace/bun"
)

// Repository defines the contract for attendance and membership snapshots.
type Repository interface {
	// ListEligible returns the playing attendees of an event with their
	// ranking points, ordered by response time then player id.
	ListEligible(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]EligibleRow, error)

	// ListByStatus returns the player ids with the given status, in response order.
	ListByStatus(ctx context.Context, db bun.IDB, event sharedtypes.EventKey, status sharedtypes.AttendanceStatus) ([]sharedtypes.PlayerID, error)

	// GetStatus returns ErrNotFound when the player never responded.
	GetStatus(ctx context.Context, db bun.IDB, event sharedtypes.EventKey, playerID sharedtypes.PlayerID) (*Attendance, error)

	UpsertStatus(ctx context.Context, db bun.IDB, row *Attendance) error

	UpsertMember(ctx context.Context, db bun.IDB, member *LeagueMember) error
}
