package drawmigrations

import (
	"context"
	"fmt"

	drawdb "github.com/Black-And-White-Club/league-night/app/modules/draw/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating draws, draw_pairs and draw_matches tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*drawdb.Draw)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create draws table: %w", err)
			}
			if _, err := tx.NewCreateTable().
				Model((*drawdb.DrawPair)(nil)).
				IfNotExists().
				ForeignKey(`("draw_id") REFERENCES "draws" ("id") ON DELETE CASCADE`).
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create draw_pairs table: %w", err)
			}
			if _, err := tx.NewCreateTable().
				Model((*drawdb.DrawMatch)(nil)).
				IfNotExists().
				ForeignKey(`("draw_id") REFERENCES "draws" ("id") ON DELETE CASCADE`).
				ForeignKey(`("pair_a_id") REFERENCES "draw_pairs" ("id") ON DELETE CASCADE`).
				ForeignKey(`("pair_b_id") REFERENCES "draw_pairs" ("id") ON DELETE CASCADE`).
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create draw_matches table: %w", err)
			}

			stmts := []string{
				`ALTER TABLE draw_matches DROP CONSTRAINT IF EXISTS draw_matches_canonical_order`,
				`ALTER TABLE draw_matches ADD CONSTRAINT draw_matches_canonical_order CHECK (pair_a_seq < pair_b_seq)`,
				`CREATE INDEX IF NOT EXISTS idx_draws_league_date ON draws (league_id, event_date DESC)`,
				`CREATE INDEX IF NOT EXISTS idx_draw_pairs_draw_id ON draw_pairs (draw_id)`,
				`CREATE INDEX IF NOT EXISTS idx_draw_matches_draw_id ON draw_matches (draw_id)`,
			}
			for _, stmt := range stmts {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("failed to run %q: %w", stmt, err)
				}
			}

			fmt.Println("Draw tables created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping draw tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, model := range []any{(*drawdb.DrawMatch)(nil), (*drawdb.DrawPair)(nil), (*drawdb.Draw)(nil)} {
				if _, err := tx.NewDropTable().Model(model).IfExists().Cascade().Exec(ctx); err != nil {
					return err
				}
			}
			return nil
		})
	})
}
