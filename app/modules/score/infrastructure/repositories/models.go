package scoredb

import (
	"context"
	"time"

	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ScoreRecord is the points ledger of one player for one event.
type ScoreRecord struct {
	bun.BaseModel `bun:"table:score_records,alias:sr"`

	LeagueID         sharedtypes.LeagueID  `bun:"league_id,pk"`
	EventDate        sharedtypes.EventDate `bun:"event_date,pk,type:text"`
	PlayerID         sharedtypes.PlayerID  `bun:"player_id,pk"`
	Confirmed        bool                  `bun:"confirmed,notnull,default:false"`
	BBQParticipated  bool                  `bun:"bbq_participated,notnull,default:false"`
	Victories        int                   `bun:"victories,notnull,default:0"`
	Defeats          int                   `bun:"defeats,notnull,default:0"`
	BlowoutsApplied  int                   `bun:"blowouts_applied,notnull,default:0"`
	BlowoutsReceived int                   `bun:"blowouts_received,notnull,default:0"`
	TotalPoints      float64               `bun:"total_points,type:double precision,notnull,default:0"`
	Submitted        bool                  `bun:"submitted,notnull,default:false"`
	UpdatedAt        time.Time             `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

var _ bun.BeforeAppendModelHook = (*ScoreRecord)(nil)

func (r *ScoreRecord) BeforeAppendModel(_ context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery, *bun.UpdateQuery:
		r.UpdatedAt = time.Now().UTC()
	}
	return nil
}

// BlowoutRecord is one applier naming one victim at an event. ApplierPairID
// is nil for manual entries.
type BlowoutRecord struct {
	bun.BaseModel `bun:"table:blowout_records,alias:br"`

	ID            int64                 `bun:"id,pk,autoincrement"`
	LeagueID      sharedtypes.LeagueID  `bun:"league_id,notnull"`
	EventDate     sharedtypes.EventDate `bun:"event_date,notnull,type:text"`
	ApplierPairID *uuid.UUID            `bun:"applier_pair_id,type:uuid"`
	ApplierID     sharedtypes.PlayerID  `bun:"applier_player_id,notnull"`
	VictimID      sharedtypes.PlayerID  `bun:"victim_player_id,notnull"`
	Source        string                `bun:"source,notnull"`
	CreatedBy     sharedtypes.PlayerID  `bun:"created_by"`
	CreatedAt     time.Time             `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

var _ bun.BeforeAppendModelHook = (*BlowoutRecord)(nil)

func (b *BlowoutRecord) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok && b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	return nil
}
