package attendancedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/uptrace/bun"
)

// Impl implements Repository using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new attendance repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) ListEligible(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]EligibleRow, error) {
	db = r.resolveDB(db)
	var rows []EligibleRow
	err := db.NewSelect().
		TableExpr("attendance AS att").
		ColumnExpr("att.player_id").
		ColumnExpr("COALESCE(lm.ranking_points, 0) AS ranking_points").
		Join("LEFT JOIN league_members AS lm ON lm.league_id = att.league_id AND lm.player_id = att.player_id").
		Where("att.league_id = ?", event.LeagueID).
		Where("att.event_date = ?", event.Date).
		Where("att.status IN (?)", bun.In([]sharedtypes.AttendanceStatus{
			sharedtypes.StatusConfirmed,
			sharedtypes.StatusPlayAndBBQ,
		})).
		OrderExpr("att.responded_at ASC, att.player_id ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("attendance.ListEligible: %w", err)
	}
	return rows, nil
}

func (r *Impl) ListByStatus(ctx context.Context, db bun.IDB, event sharedtypes.EventKey, status sharedtypes.AttendanceStatus) ([]sharedtypes.PlayerID, error) {
	db = r.resolveDB(db)
	var ids []sharedtypes.PlayerID
	err := db.NewSelect().
		Model((*Attendance)(nil)).
		Column("player_id").
		Where("league_id = ?", event.LeagueID).
		Where("event_date = ?", event.Date).
		Where("status = ?", status).
		OrderExpr("responded_at ASC, player_id ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("attendance.ListByStatus: %w", err)
	}
	return ids, nil
}

func (r *Impl) GetStatus(ctx context.Context, db bun.IDB, event sharedtypes.EventKey, playerID sharedtypes.PlayerID) (*Attendance, error) {
	db = r.resolveDB(db)
	row := new(Attendance)
	err := db.NewSelect().
		Model(row).
		Where("league_id = ?", event.LeagueID).
		Where("event_date = ?", event.Date).
		Where("player_id = ?", playerID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("attendance.GetStatus: %w", err)
	}
	return row, nil
}

// UpsertStatus keeps the original responded_at unless the status changes, so
// a repeated identical event does not move the player in the eligible order.
func (r *Impl) UpsertStatus(ctx context.Context, db bun.IDB, row *Attendance) error {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	if row.RespondedAt.IsZero() {
		row.RespondedAt = now
	}
	row.UpdatedAt = now

	_, err := db.NewInsert().
		Model(row).
		On("CONFLICT (league_id, event_date, player_id) DO UPDATE").
		Set("responded_at = CASE WHEN att.status = EXCLUDED.status THEN att.responded_at ELSE EXCLUDED.responded_at END").
		Set("status = EXCLUDED.status").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("attendance.UpsertStatus: %w", err)
	}
	return nil
}

func (r *Impl) UpsertMember(ctx context.Context, db bun.IDB, member *LeagueMember) error {
	db = r.resolveDB(db)
	member.UpdatedAt = time.Now().UTC()

	_, err := db.NewInsert().
		Model(member).
		On("CONFLICT (league_id, player_id) DO UPDATE").
		Set("ranking_points = EXCLUDED.ranking_points").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("attendance.UpsertMember: %w", err)
	}
	return nil
}
