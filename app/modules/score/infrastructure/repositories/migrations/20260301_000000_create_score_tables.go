package scoremigrations

import (
	"context"
	"fmt"

	scoredb "github.com/Black-And-White-Club/league-night/app/modules/score/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating score_records and blowout_records tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, model := range []any{(*scoredb.ScoreRecord)(nil), (*scoredb.BlowoutRecord)(nil)} {
				if _, err := tx.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
					return fmt.Errorf("failed to create table: %w", err)
				}
			}

			stmts := []string{
				`ALTER TABLE blowout_records DROP CONSTRAINT IF EXISTS blowout_records_source_check`,
				`ALTER TABLE blowout_records ADD CONSTRAINT blowout_records_source_check CHECK (source IN ('submission', 'manual'))`,
				`CREATE INDEX IF NOT EXISTS idx_blowout_records_event ON blowout_records (league_id, event_date)`,
				`CREATE INDEX IF NOT EXISTS idx_blowout_records_applier ON blowout_records (league_id, event_date, applier_player_id)`,
				`CREATE INDEX IF NOT EXISTS idx_score_records_player ON score_records (league_id, player_id, event_date)`,
			}
			for _, stmt := range stmts {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("failed to run %q: %w", stmt, err)
				}
			}

			fmt.Println("Score tables created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping score tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, model := range []any{(*scoredb.BlowoutRecord)(nil), (*scoredb.ScoreRecord)(nil)} {
				if _, err := tx.NewDropTable().Model(model).IfExists().Cascade().Exec(ctx); err != nil {
					return err
				}
			}
			return nil
		})
	})
}
