package drawdb

import (
	"context"
	"time"

	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Draw is the persisted pairing and schedule of one event. A league has at
// most one draw per event date.
type Draw struct {
	bun.BaseModel `bun:"table:draws,alias:d"`

	ID             uuid.UUID             `bun:"id,pk,type:uuid"`
	LeagueID       sharedtypes.LeagueID  `bun:"league_id,notnull,unique:draws_event_uniq"`
	EventDate      sharedtypes.EventDate `bun:"event_date,notnull,type:text,unique:draws_event_uniq"`
	Seed           int64                 `bun:"seed,notnull"`
	MatchesPerPair int                   `bun:"matches_per_pair,notnull"`
	CreatedBy      sharedtypes.PlayerID  `bun:"created_by"`
	CreatedAt      time.Time             `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	ForcedRepeats  int                   `bun:"forced_repeats,notnull,default:0"`
	PartialPairs   int                   `bun:"partial_pairs,notnull,default:0"`

	Pairs   []*DrawPair  `bun:"rel:has-many,join:id=draw_id"`
	Matches []*DrawMatch `bun:"rel:has-many,join:id=draw_id"`
}

var _ bun.BeforeAppendModelHook = (*Draw)(nil)

func (d *Draw) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok {
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		if d.CreatedAt.IsZero() {
			d.CreatedAt = time.Now().UTC()
		}
	}
	return nil
}

// DrawPair is one pair of a draw. Player2ID is nil for the wildcard pair.
type DrawPair struct {
	bun.BaseModel `bun:"table:draw_pairs,alias:dp"`

	ID        uuid.UUID             `bun:"id,pk,type:uuid"`
	DrawID    uuid.UUID             `bun:"draw_id,notnull,type:uuid,unique:draw_pairs_seq_uniq"`
	Seq       int                   `bun:"seq,notnull,unique:draw_pairs_seq_uniq"`
	Tier      string                `bun:"tier,notnull"`
	Player1ID sharedtypes.PlayerID  `bun:"player1_id,notnull"`
	Player2ID *sharedtypes.PlayerID `bun:"player2_id"`
}

// DrawMatch is a fixture between two pairs of a draw, stored with the lower
// pair sequence first.
type DrawMatch struct {
	bun.BaseModel `bun:"table:draw_matches,alias:dm"`

	ID       uuid.UUID `bun:"id,pk,type:uuid"`
	DrawID   uuid.UUID `bun:"draw_id,notnull,type:uuid,unique:draw_matches_pairs_uniq"`
	Seq      int       `bun:"seq,notnull"`
	Tier     string    `bun:"tier,notnull"`
	PairAID  uuid.UUID `bun:"pair_a_id,notnull,type:uuid,unique:draw_matches_pairs_uniq"`
	PairBID  uuid.UUID `bun:"pair_b_id,notnull,type:uuid,unique:draw_matches_pairs_uniq"`
	PairASeq int       `bun:"pair_a_seq,notnull"`
	PairBSeq int       `bun:"pair_b_seq,notnull"`
}
