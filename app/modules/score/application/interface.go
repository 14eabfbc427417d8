package scoreservice

import (
	"context"
	"time"

	scoredomain "github.com/Black-And-White-Club/league-night/app/modules/score/domain"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/uptrace/bun"
)

// Service keeps the points ledger of every event consistent with the
// submitted results and blowout records.
type Service interface {
	SubmitScore(ctx context.Context, cmd SubmitScoreCommand) (*SubmitScoreResult, error)
	SubmitManualBlowout(ctx context.Context, cmd ManualBlowoutCommand) (*ManualBlowoutResult, error)
	ResetLeagueScores(ctx context.Context, cmd ResetLeagueCommand) (*ResetLeagueResult, error)
	GetEventScores(ctx context.Context, event sharedtypes.EventKey) ([]PlayerScore, error)
	GetPlayerHistory(ctx context.Context, league sharedtypes.LeagueID, player sharedtypes.PlayerID) ([]PlayerScore, error)
	RenderPointsChart(ctx context.Context, league sharedtypes.LeagueID, player sharedtypes.PlayerID) ([]byte, error)
}

// StatusSource reads attendance inside the caller's transaction.
type StatusSource interface {
	StatusOf(ctx context.Context, db bun.IDB, event sharedtypes.EventKey, player sharedtypes.PlayerID) (sharedtypes.AttendanceStatus, error)
	SocialOnlyPlayers(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]sharedtypes.PlayerID, error)
}

// PairDirectory maps the paired players of an event's draw to their pair id.
type PairDirectory interface {
	PairMembership(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) (map[sharedtypes.PlayerID]string, error)
}

type SubmitScoreCommand struct {
	Event           sharedtypes.EventKey
	Player          sharedtypes.PlayerID
	Victories       int
	Defeats         int
	AppliedVictims  []sharedtypes.PlayerID
	BBQParticipated bool
	Confirmed       bool
}

type ManualBlowoutCommand struct {
	Event       sharedtypes.EventKey
	Appliers    []sharedtypes.PlayerID
	Victims     []sharedtypes.PlayerID
	RequestedBy sharedtypes.PlayerID
}

type ResetLeagueCommand struct {
	LeagueID    sharedtypes.LeagueID
	Confirm     bool
	RequestedBy sharedtypes.PlayerID
}

// PlayerScore is a stored ledger with its total.
type PlayerScore struct {
	LeagueID  sharedtypes.LeagueID  `json:"league_id"`
	EventDate sharedtypes.EventDate `json:"event_date"`
	PlayerID  sharedtypes.PlayerID  `json:"player_id"`
	scoredomain.Ledger
	TotalPoints float64   `json:"total_points"`
	Submitted   bool      `json:"submitted"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SubmitScoreResult carries the submitter's new score and the outcome of the
// follow-up recompute of every affected victim. A victim listed in
// FailedRecomputes keeps a stale total until its next recompute.
type SubmitScoreResult struct {
	Score            PlayerScore            `json:"score"`
	Recomputed       []sharedtypes.PlayerID `json:"recomputed,omitempty"`
	FailedRecomputes []sharedtypes.PlayerID `json:"failed_recomputes,omitempty"`
}

type ManualBlowoutResult struct {
	Records          int                    `json:"records"`
	Recomputed       []sharedtypes.PlayerID `json:"recomputed,omitempty"`
	FailedRecomputes []sharedtypes.PlayerID `json:"failed_recomputes,omitempty"`
}

type ResetLeagueResult struct {
	LeagueID        sharedtypes.LeagueID `json:"league_id"`
	BlowoutsDeleted int                  `json:"blowouts_deleted"`
	ScoresReset     int                  `json:"scores_reset"`
}
