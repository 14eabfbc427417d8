package scoredb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new score repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) AcquireEventLock(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) error {
	db = r.resolveDB(db)
	if _, err := db.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", "score:"+event.String()).Exec(ctx); err != nil {
		return fmt.Errorf("score.AcquireEventLock: %w", err)
	}
	return nil
}

func (r *Impl) ListBlowouts(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]BlowoutRecord, error) {
	db = r.resolveDB(db)
	var records []BlowoutRecord
	err := db.NewSelect().
		Model(&records).
		Where("br.league_id = ?", event.LeagueID).
		Where("br.event_date = ?", event.Date).
		Order("br.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("score.ListBlowouts: %w", err)
	}
	return records, nil
}

func (r *Impl) ListBlowoutsByApplier(ctx context.Context, db bun.IDB, event sharedtypes.EventKey, applier sharedtypes.PlayerID) ([]BlowoutRecord, error) {
	db = r.resolveDB(db)
	var records []BlowoutRecord
	err := db.NewSelect().
		Model(&records).
		Where("br.league_id = ?", event.LeagueID).
		Where("br.event_date = ?", event.Date).
		Where("br.applier_player_id = ?", applier).
		Order("br.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("score.ListBlowoutsByApplier: %w", err)
	}
	return records, nil
}

func (r *Impl) DeleteBlowoutsByApplier(ctx context.Context, db bun.IDB, event sharedtypes.EventKey, applier sharedtypes.PlayerID) (int, error) {
	db = r.resolveDB(db)
	res, err := db.NewDelete().
		Model((*BlowoutRecord)(nil)).
		Where("league_id = ?", event.LeagueID).
		Where("event_date = ?", event.Date).
		Where("applier_player_id = ?", applier).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("score.DeleteBlowoutsByApplier: %w", err)
	}
	return rowsAffected(res, "score.DeleteBlowoutsByApplier")
}

func (r *Impl) InsertBlowouts(ctx context.Context, db bun.IDB, records []*BlowoutRecord) error {
	if len(records) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(&records).Exec(ctx); err != nil {
		return fmt.Errorf("score.InsertBlowouts: %w", err)
	}
	return nil
}

func (r *Impl) GetScore(ctx context.Context, db bun.IDB, event sharedtypes.EventKey, player sharedtypes.PlayerID) (*ScoreRecord, error) {
	db = r.resolveDB(db)
	record := new(ScoreRecord)
	err := db.NewSelect().
		Model(record).
		Where("sr.league_id = ?", event.LeagueID).
		Where("sr.event_date = ?", event.Date).
		Where("sr.player_id = ?", player).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("score.GetScore: %w", err)
	}
	return record, nil
}

func (r *Impl) UpsertScore(ctx context.Context, db bun.IDB, record *ScoreRecord) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(record).
		On("CONFLICT (league_id, event_date, player_id) DO UPDATE").
		Set("confirmed = EXCLUDED.confirmed").
		Set("bbq_participated = EXCLUDED.bbq_participated").
		Set("victories = EXCLUDED.victories").
		Set("defeats = EXCLUDED.defeats").
		Set("blowouts_applied = EXCLUDED.blowouts_applied").
		Set("blowouts_received = EXCLUDED.blowouts_received").
		Set("total_points = EXCLUDED.total_points").
		Set("submitted = EXCLUDED.submitted").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("score.UpsertScore: %w", err)
	}
	return nil
}

func (r *Impl) ListEventScores(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]ScoreRecord, error) {
	db = r.resolveDB(db)
	var records []ScoreRecord
	err := db.NewSelect().
		Model(&records).
		Where("sr.league_id = ?", event.LeagueID).
		Where("sr.event_date = ?", event.Date).
		Order("sr.total_points DESC", "sr.player_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("score.ListEventScores: %w", err)
	}
	return records, nil
}

func (r *Impl) ListPlayerScores(ctx context.Context, db bun.IDB, league sharedtypes.LeagueID, player sharedtypes.PlayerID) ([]ScoreRecord, error) {
	db = r.resolveDB(db)
	var records []ScoreRecord
	err := db.NewSelect().
		Model(&records).
		Where("sr.league_id = ?", league).
		Where("sr.player_id = ?", player).
		Order("sr.event_date ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("score.ListPlayerScores: %w", err)
	}
	return records, nil
}

func (r *Impl) DeleteLeagueBlowouts(ctx context.Context, db bun.IDB, league sharedtypes.LeagueID) (int, error) {
	db = r.resolveDB(db)
	res, err := db.NewDelete().
		Model((*BlowoutRecord)(nil)).
		Where("league_id = ?", league).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("score.DeleteLeagueBlowouts: %w", err)
	}
	return rowsAffected(res, "score.DeleteLeagueBlowouts")
}

func (r *Impl) ResetLeagueScores(ctx context.Context, db bun.IDB, league sharedtypes.LeagueID) (int, error) {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*ScoreRecord)(nil)).
		Set("confirmed = FALSE").
		Set("bbq_participated = FALSE").
		Set("victories = 0").
		Set("defeats = 0").
		Set("blowouts_applied = 0").
		Set("blowouts_received = 0").
		Set("total_points = 0").
		Set("submitted = FALSE").
		Set("updated_at = ?", time.Now().UTC()).
		Where("league_id = ?", league).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("score.ResetLeagueScores: %w", err)
	}
	return rowsAffected(res, "score.ResetLeagueScores")
}

func rowsAffected(res sql.Result, op string) (int, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(n), nil
}
