package drawservice

import (
	"context"
	"time"

	drawdomain "github.com/Black-And-White-Club/league-night/app/modules/draw/domain"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Service runs and manages the draw of each event.
type Service interface {
	RunDraw(ctx context.Context, cmd RunDrawCommand) (*DrawResult, error)
	DeleteDraw(ctx context.Context, drawID uuid.UUID) (*DrawSummary, error)
	GetDrawByID(ctx context.Context, drawID uuid.UUID) (*DrawSummary, error)
	GetDraw(ctx context.Context, event sharedtypes.EventKey) (*DrawResult, error)
	ExportDraw(ctx context.Context, event sharedtypes.EventKey) ([]byte, error)
	ScheduleDraw(ctx context.Context, cmd ScheduleDrawCommand) (*ScheduledRun, error)
}

// AttendanceSource lists the playing attendees of an event inside the
// caller's transaction.
type AttendanceSource interface {
	EligiblePlayers(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]sharedtypes.RankedPlayer, error)
}

// RunScheduler enqueues a draw run for later.
type RunScheduler interface {
	ScheduleDrawRun(ctx context.Context, event sharedtypes.EventKey, runAt time.Time, requestedBy sharedtypes.PlayerID) (*ScheduledRun, error)
}

// Config tunes the scheduler.
type Config struct {
	MatchesPerPair int
	// StrictSchedule fails the draw when a pair cannot reach its quota
	// instead of returning a warning.
	StrictSchedule bool
}

type RunDrawCommand struct {
	Event     sharedtypes.EventKey
	CreatedBy sharedtypes.PlayerID
	// Seed reproduces an earlier draw when set.
	Seed *int64
}

type ScheduleDrawCommand struct {
	Event       sharedtypes.EventKey
	ClosesAt    time.Time
	RequestedBy sharedtypes.PlayerID
}

// ScheduledRun identifies an enqueued draw run.
type ScheduledRun struct {
	JobID     int64
	RunAt     time.Time
	Duplicate bool
}

// DrawSummary is the header of a persisted draw.
type DrawSummary struct {
	ID             sharedtypes.DrawID    `json:"draw_id"`
	LeagueID       sharedtypes.LeagueID  `json:"league_id"`
	EventDate      sharedtypes.EventDate `json:"event_date"`
	Seed           int64                 `json:"seed"`
	MatchesPerPair int                   `json:"matches_per_pair"`
	CreatedBy      sharedtypes.PlayerID  `json:"created_by,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

// DrawResult is a draw with its pairs, matches and non-fatal warnings.
type DrawResult struct {
	Draw          DrawSummary                         `json:"draw"`
	Pairs         []drawdomain.Pair                   `json:"pairs"`
	Matches       []drawdomain.Match                  `json:"matches"`
	ForcedRepeats []drawdomain.ForcedRepeatPairing    `json:"forced_repeats,omitempty"`
	Shortfalls    []drawdomain.PartialScheduleWarning `json:"shortfalls,omitempty"`
	// Replaced reports whether an earlier draw of the event was removed.
	Replaced bool `json:"replaced,omitempty"`
}
