package attendancemigrations

import (
	"context"
	"fmt"

	attendancedb "github.com/Black-And-White-Club/league-night/app/modules/attendance/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating attendance and league_members tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*attendancedb.Attendance)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create attendance table: %w", err)
			}
			if _, err := tx.NewCreateTable().Model((*attendancedb.LeagueMember)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create league_members table: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_attendance_event_status
				ON attendance (league_id, event_date, status, responded_at)
			`); err != nil {
				return fmt.Errorf("failed to create attendance index: %w", err)
			}
			fmt.Println("Attendance tables created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping attendance and league_members tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewDropTable().Model((*attendancedb.LeagueMember)(nil)).IfExists().Exec(ctx); err != nil {
				return err
			}
			if _, err := tx.NewDropTable().Model((*attendancedb.Attendance)(nil)).IfExists().Exec(ctx); err != nil {
				return err
			}
			return nil
		})
	})
}
