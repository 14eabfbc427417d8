package drawdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new draw repository.
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
	if _, err := db.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", "draw:"+event.String()).Exec(ctx); err != nil {
		return fmt.Errorf("draw.AcquireEventLock: %w", err)
	}
	return nil
}

func (r *Impl) GetDrawForEvent(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) (*Draw, error) {
	db = r.resolveDB(db)
	draw := new(Draw)
	err := db.NewSelect().
		Model(draw).
		Relation("Pairs", func(q *bun.SelectQuery) *bun.SelectQuery { return q.Order("dp.seq ASC") }).
		Relation("Matches", func(q *bun.SelectQuery) *bun.SelectQuery { return q.Order("dm.seq ASC") }).
		Where("d.league_id = ?", event.LeagueID).
		Where("d.event_date = ?", event.Date).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("draw.GetDrawForEvent: %w", err)
	}
	return draw, nil
}

func (r *Impl) GetDrawByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Draw, error) {
	db = r.resolveDB(db)
	draw := new(Draw)
	err := db.NewSelect().
		Model(draw).
		Relation("Pairs", func(q *bun.SelectQuery) *bun.SelectQuery { return q.Order("dp.seq ASC") }).
		Relation("Matches", func(q *bun.SelectQuery) *bun.SelectQuery { return q.Order("dm.seq ASC") }).
		Where("d.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("draw.GetDrawByID: %w", err)
	}
	return draw, nil
}

func (r *Impl) GetLatestPairsBefore(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]DrawPair, error) {
	db = r.resolveDB(db)
	latest := db.NewSelect().
		Model((*Draw)(nil)).
		Column("id").
		Where("league_id = ?", event.LeagueID).
		Where("event_date < ?", event.Date).
		Order("event_date DESC").
		Limit(1)

	var pairs []DrawPair
	err := db.NewSelect().
		Model(&pairs).
		Where("dp.draw_id = (?)", latest).
		Order("dp.seq ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("draw.GetLatestPairsBefore: %w", err)
	}
	return pairs, nil
}

func (r *Impl) ListPairs(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]DrawPair, error) {
	db = r.resolveDB(db)
	var pairs []DrawPair
	err := db.NewSelect().
		Model(&pairs).
		Join("JOIN draws AS d ON d.id = dp.draw_id").
		Where("d.league_id = ?", event.LeagueID).
		Where("d.event_date = ?", event.Date).
		Order("dp.seq ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("draw.ListPairs: %w", err)
	}
	return pairs, nil
}

func (r *Impl) DeleteDrawForEvent(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) (int, error) {
	db = r.resolveDB(db)
	res, err := db.NewDelete().
		Model((*Draw)(nil)).
		Where("league_id = ?", event.LeagueID).
		Where("event_date = ?", event.Date).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("draw.DeleteDrawForEvent: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("draw.DeleteDrawForEvent: %w", err)
	}
	return int(n), nil
}

func (r *Impl) DeleteDrawByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Draw, error) {
	db = r.resolveDB(db)
	draw := new(Draw)
	err := db.NewDelete().
		Model(draw).
		Where("id = ?", id).
		Returning("*").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("draw.DeleteDrawByID: %w", err)
	}
	return draw, nil
}

func (r *Impl) InsertDraw(ctx context.Context, db bun.IDB, draw *Draw, pairs []*DrawPair, matches []*DrawMatch) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(draw).Exec(ctx); err != nil {
		return fmt.Errorf("draw.InsertDraw: %w", err)
	}
	for _, p := range pairs {
		p.DrawID = draw.ID
	}
	for _, m := range matches {
		m.DrawID = draw.ID
	}
	if len(pairs) > 0 {
		if _, err := db.NewInsert().Model(&pairs).Exec(ctx); err != nil {
			return fmt.Errorf("draw.InsertDraw pairs: %w", err)
		}
	}
	if len(matches) > 0 {
		if _, err := db.NewInsert().Model(&matches).Exec(ctx); err != nil {
			return fmt.Errorf("draw.InsertDraw matches: %w", err)
		}
	}
	return nil
}
