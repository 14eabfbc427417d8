//go:build integration

package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Black-And-White-Club/league-night/app/eventbus"
	"github.com/Black-And-White-Club/league-night/app/shared/migrations"
	"github.com/Black-And-White-Club/league-night/app/shared/observability"
	"github.com/Black-And-White-Club/league-night/config"
	"github.com/Black-And-White-Club/league-night/integration_tests/containers"
	"github.com/prometheus/client_golang/prometheus"
)

// TestEnvironment holds the containers and connections shared by one test
// package.
type TestEnvironment struct {
	Ctx           context.Context
	CancelContext context.CancelFunc
	PgContainer   *postgres.PostgresContainer
	NatsContainer testcontainers.Container
	DB            *bun.DB
	EventBus      eventbus.EventBus
	NatsConn      *nats.Conn
	JetStream     jetstream.JetStream
	Config        *config.Config
}

// NewTestEnvironment starts Postgres and NATS, applies every migration and
// connects the event bus.
func NewTestEnvironment() (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(context.Background())
	env := &TestEnvironment{Ctx: ctx, CancelContext: cancel}

	pgContainer, pgConnStr, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to setup postgres container: %w", err)
	}
	env.PgContainer = pgContainer

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to setup nats container: %w", err)
	}
	env.NatsContainer = natsContainer

	env.DB = bun.NewDB(sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(pgConnStr))), pgdialect.New())
	if err := migrations.MigrateAll(ctx, env.DB); err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if _, err := migrations.RunRiver(ctx, pgConnStr, rivermigrate.DirectionUp); err != nil {
		env.Cleanup()
		return nil, err
	}

	env.NatsConn, err = nats.Connect(natsURL, nats.Timeout(10*time.Second))
	if err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	env.JetStream, err = jetstream.New(env.NatsConn)
	if err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	env.Config = &config.Config{
		Postgres: config.PostgresConfig{DSN: pgConnStr},
		NATS:     config.NATSConfig{URL: natsURL, QueueGroup: "league-night-test"},
		Draw:     config.DrawConfig{MatchesPerPair: 4},
	}

	env.EventBus, err = eventbus.NewEventBus(ctx, eventbus.Config{
		URL:        natsURL,
		ClientName: "league-night-test",
		QueueGroup: env.Config.NATS.QueueGroup,
		AckWait:    5 * time.Second,
	}, DiscardLogger())
	if err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to create EventBus: %w", err)
	}

	return env, nil
}

// Observability returns silent logging and tracing with a fresh registry so
// modules can register their collectors once per test.
func (env *TestEnvironment) Observability() observability.Observability {
	return observability.Observability{
		Logger:   DiscardLogger(),
		Tracer:   noop.NewTracerProvider().Tracer("test"),
		Registry: prometheus.NewRegistry(),
	}
}

// DiscardLogger drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Reset empties every table and stream between tests.
func (env *TestEnvironment) Reset() error {
	if err := CleanAllTables(env.Ctx, env.DB); err != nil {
		return err
	}
	return env.PurgeStreams(env.Ctx, "attendance", "draw", "score")
}

// Cleanup tears down all resources created for testing.
func (env *TestEnvironment) Cleanup() {
	if env.CancelContext != nil {
		env.CancelContext()
	}
	if env.EventBus != nil {
		if err := env.EventBus.Close(); err != nil {
			log.Printf("Error closing EventBus: %v", err)
		}
	}
	if env.NatsConn != nil {
		env.NatsConn.Close()
	}
	if env.DB != nil {
		env.DB.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if env.NatsContainer != nil {
		if err := env.NatsContainer.Terminate(ctx); err != nil {
			log.Printf("Error terminating NATS container: %v", err)
		}
	}
	if env.PgContainer != nil {
		if err := env.PgContainer.Terminate(ctx); err != nil {
			log.Printf("Error terminating Postgres container: %v", err)
		}
	}
}
