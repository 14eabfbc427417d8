// Package migrations collects every module's bun migrations and the River
// queue schema.
package migrations

import (
	"context"
	"fmt"
	"sort"

	attendancemigrations "github.com/Black-And-White-Club/league-night/app/modules/attendance/infrastructure/repositories/migrations"
	drawmigrations "github.com/Black-And-White-Club/league-night/app/modules/draw/infrastructure/repositories/migrations"
	scoremigrations "github.com/Black-And-White-Club/league-night/app/modules/score/infrastructure/repositories/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// Migrators returns one migrator per module. Each module keeps its own
// bookkeeping tables so groups can be rolled back independently.
func Migrators(db *bun.DB) map[string]*migrate.Migrator {
	return map[string]*migrate.Migrator{
		"attendance": newMigrator(db, "attendance", attendancemigrations.Migrations),
		"draw":       newMigrator(db, "draw", drawmigrations.Migrations),
		"score":      newMigrator(db, "score", scoremigrations.Migrations),
	}
}

func newMigrator(db *bun.DB, module string, m *migrate.Migrations) *migrate.Migrator {
	return migrate.NewMigrator(db, m,
		migrate.WithTableName("bun_migrations_"+module),
		migrate.WithLocksTableName("bun_migration_locks_"+module),
	)
}

// ModuleNames returns the migrator keys in a stable order.
func ModuleNames(migrators map[string]*migrate.Migrator) []string {
	names := make([]string, 0, len(migrators))
	for name := range migrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MigrateAll initializes and applies every module's migrations.
func MigrateAll(ctx context.Context, db *bun.DB) error {
	migrators := Migrators(db)
	for _, name := range ModuleNames(migrators) {
		m := migrators[name]
		if err := m.Init(ctx); err != nil {
			return fmt.Errorf("failed to init %s migrations: %w", name, err)
		}
		if _, err := m.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run %s migrations: %w", name, err)
		}
	}
	return nil
}

// RunRiver applies (or, going down, reverts one step of) River's schema.
func RunRiver(ctx context.Context, dsn string, direction rivermigrate.Direction) ([]int, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create River migrator: %w", err)
	}

	opts := &rivermigrate.MigrateOpts{}
	if direction == rivermigrate.DirectionDown {
		opts.MaxSteps = 1
	}
	res, err := migrator.Migrate(ctx, direction, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to run River migrations: %w", err)
	}
	versions := make([]int, 0, len(res.Versions))
	for _, v := range res.Versions {
		versions = append(versions, v.Version)
	}
	return versions, nil
}
