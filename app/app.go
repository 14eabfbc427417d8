package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/league-night/app/eventbus"
	"github.com/Black-And-White-Club/league-night/app/modules/attendance"
	"github.com/Black-And-White-Club/league-night/app/modules/auth"
	"github.com/Black-And-White-Club/league-night/app/modules/draw"
	"github.com/Black-And-White-Club/league-night/app/modules/score"
	"github.com/Black-And-White-Club/league-night/app/shared/metrics"
	"github.com/Black-And-White-Club/league-night/app/shared/observability"
	"github.com/Black-And-White-Club/league-night/app/shared/observability/attr"
	"github.com/Black-And-White-Club/league-night/config"
	"github.com/ThreeDotsLabs/watermill"
	wmetrics "github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	clientName          = "league-night"
	routerCloseTimeout  = 10 * time.Second
	httpShutdownTimeout = 10 * time.Second
)

// App holds the wired modules and their shared infrastructure.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	DB            *bun.DB
	EventBus      eventbus.EventBus
	Router        *message.Router

	AttendanceModule *attendance.Module
	DrawModule       *draw.Module
	ScoreModule      *score.Module
	AuthModule       *auth.Module

	httpServer    *http.Server
	metricsServer *http.Server
	wg            sync.WaitGroup
}

// NewApp connects to Postgres and NATS and wires every module onto one
// Watermill router.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	obs := observability.Init(config.ToObsConfig(cfg))
	logger := obs.Logger

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bun.NewDB(sqldb, pgdialect.New())
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	bus, err := eventbus.NewEventBus(ctx, eventbus.Config{
		URL:        cfg.NATS.URL,
		NKeySeed:   cfg.NATS.NKeySeed,
		ClientName: clientName,
		QueueGroup: cfg.NATS.QueueGroup,
	}, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	app := &App{
		Config:        cfg,
		Observability: obs,
		DB:            db,
		EventBus:      bus,
	}

	if err := app.initModules(ctx); err != nil {
		app.closeInfra()
		return nil, err
	}

	logger.InfoContext(ctx, "Application initialized")
	return app, nil
}

func (app *App) initModules(ctx context.Context) error {
	obs := app.Observability
	cfg := app.Config

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: routerCloseTimeout}, watermill.NewSlogLogger(obs.Logger))
	if err != nil {
		return fmt.Errorf("failed to create Watermill router: %w", err)
	}
	app.Router = router

	// Router metrics are registered once for all modules sharing the router.
	builder := wmetrics.NewPrometheusMetricsBuilder(obs.Registry, metrics.Namespace, "router")
	builder.AddPrometheusRouterMetrics(router)
	router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Retry{MaxRetries: 3, InitialInterval: 100 * time.Millisecond, Logger: watermill.NewSlogLogger(obs.Logger)}.Middleware,
	)

	attendanceMetrics := metrics.NewPrometheusOperationMetrics(metrics.ModuleRegisterer(obs.Registry, "attendance"), metrics.Namespace)
	app.AttendanceModule, err = attendance.NewAttendanceModule(ctx, obs, attendanceMetrics, app.EventBus, router, app.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize attendance module: %w", err)
	}

	resolver := app.AttendanceModule.Service.Resolver()

	app.DrawModule, err = draw.NewDrawModule(ctx, cfg, obs, resolver, app.EventBus, router, app.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize draw module: %w", err)
	}

	app.ScoreModule, err = score.NewScoreModule(ctx, obs, resolver, app.DrawModule.Pairs, app.EventBus, router, app.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize score module: %w", err)
	}

	app.AuthModule, err = auth.NewModule(ctx, cfg, obs)
	if err != nil {
		return fmt.Errorf("failed to initialize auth module: %w", err)
	}
	return nil
}

// Run starts the router, the module goroutines and the HTTP servers, then
// blocks until ctx is cancelled.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Logger

	app.wg.Add(3)
	go app.AttendanceModule.Run(ctx, &app.wg)
	go app.DrawModule.Run(ctx, &app.wg)
	go app.ScoreModule.Run(ctx, &app.wg)

	routerErr := make(chan error, 1)
	go func() {
		if err := app.Router.Run(ctx); err != nil {
			routerErr <- err
		}
	}()

	app.httpServer = &http.Server{
		Addr:              app.Config.HTTP.Address,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 2)
	go func() {
		logger.InfoContext(ctx, "HTTP server listening", attr.String("address", app.httpServer.Addr))
		if err := app.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- fmt.Errorf("http server: %w", err)
		}
	}()

	if addr := app.Config.Observability.MetricsAddress; addr != "" {
		app.metricsServer = &http.Server{
			Addr:              addr,
			Handler:           app.metricsHandler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.InfoContext(ctx, "Metrics server listening", attr.String("address", addr))
			if err := app.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				serveErr <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-routerErr:
		return fmt.Errorf("watermill router stopped: %w", err)
	case err := <-serveErr:
		return err
	}
}

// Close shuts everything down in reverse start order.
func (app *App) Close() error {
	logger := app.Observability.Logger
	logger.Info("Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
	defer cancel()

	for _, srv := range []*http.Server{app.httpServer, app.metricsServer} {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown failed", attr.String("address", srv.Addr), attr.Error(err))
		}
	}

	if app.Router != nil {
		if err := app.Router.Close(); err != nil {
			logger.Error("Failed to close Watermill router", attr.Error(err))
		}
	}

	for name, m := range app.closers() {
		if err := m.Close(); err != nil {
			logger.Error("Failed to close module", attr.String("module", name), attr.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		app.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn("Timed out waiting for module goroutines")
	}

	app.closeInfra()
	logger.Info("Application shut down")
	return nil
}

func (app *App) closers() map[string]interface{ Close() error } {
	out := map[string]interface{ Close() error }{}
	if app.ScoreModule != nil {
		out["score"] = app.ScoreModule
	}
	if app.DrawModule != nil {
		out["draw"] = app.DrawModule
	}
	if app.AttendanceModule != nil {
		out["attendance"] = app.AttendanceModule
	}
	return out
}

func (app *App) closeInfra() {
	logger := app.Observability.Logger
	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			logger.Error("Failed to close event bus", attr.Error(err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			logger.Error("Failed to close database", attr.Error(err))
		}
	}
}
