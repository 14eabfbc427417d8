//go:build integration

package testutils

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/uptrace/bun"
)

// leagueTables lists every table owned by the application modules.
var leagueTables = []string{
	"attendance",
	"league_members",
	"draw_matches",
	"draw_pairs",
	"draws",
	"blowout_records",
	"score_records",
}

// TruncateTables truncates the given tables and restarts their sequences.
func TruncateTables(ctx context.Context, db *bun.DB, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	quoted := make([]string, len(tables))
	for i, t := range tables {
		quoted[i] = fmt.Sprintf("%q", t)
	}
	query := "TRUNCATE TABLE " + strings.Join(quoted, ", ") + " RESTART IDENTITY CASCADE"
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables %v: %w", tables, err)
	}
	return nil
}

// CleanAllTables empties the module tables and River's job table.
func CleanAllTables(ctx context.Context, db *bun.DB) error {
	if err := TruncateTables(ctx, db, leagueTables...); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM river_job"); err != nil {
		return fmt.Errorf("failed to clean river jobs: %w", err)
	}
	return nil
}

// PurgeStreams drops all messages from the given streams. Missing streams
// are skipped.
func (env *TestEnvironment) PurgeStreams(ctx context.Context, names ...string) error {
	for _, name := range names {
		stream, err := env.JetStream.Stream(ctx, name)
		if errors.Is(err, jetstream.ErrStreamNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to look up stream %s: %w", name, err)
		}
		if err := stream.Purge(ctx); err != nil {
			return fmt.Errorf("failed to purge stream %s: %w", name, err)
		}
	}
	return nil
}
