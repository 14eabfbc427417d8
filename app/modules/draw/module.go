package draw

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Black-And-White-Club/league-night/app/eventbus"
	drawservice "github.com/Black-And-White-Club/league-night/app/modules/draw/application"
	drawhandlers "github.com/Black-And-White-Club/league-night/app/modules/draw/infrastructure/handlers"
	drawhttp "github.com/Black-And-White-Club/league-night/app/modules/draw/infrastructure/http"
	drawqueue "github.com/Black-And-White-Club/league-night/app/modules/draw/infrastructure/queue"
	drawdb "github.com/Black-And-White-Club/league-night/app/modules/draw/infrastructure/repositories"
	drawrouter "github.com/Black-And-White-Club/league-night/app/modules/draw/infrastructure/router"
	"github.com/Black-And-White-Club/league-night/app/shared/metrics"
	"github.com/Black-And-White-Club/league-night/app/shared/observability"
	"github.com/Black-And-White-Club/league-night/app/shared/observability/attr"
	"github.com/Black-And-White-Club/league-night/config"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

const queueStopTimeout = 10 * time.Second

// Module represents the draw module.
type Module struct {
	Service *drawservice.DrawService
	HTTP    *drawhttp.DrawHTTPHandlers
	// Pairs resolves pair membership for scoring.
	Pairs         *drawservice.PairDirectory
	queue         *drawqueue.Service
	router        *drawrouter.DrawRouter
	cancelFunc    context.CancelFunc
	observability observability.Observability
}

// NewDrawModule creates and initializes a new draw module. The River queue
// is started only when cfg.Draw.SchedulerEnabled is set.
func NewDrawModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	attendance drawservice.AttendanceSource,
	eventBus eventbus.EventBus,
	router *message.Router,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "draw.NewDrawModule initializing")

	drawMetrics := metrics.NewPrometheusDrawMetrics(obs.Registry, metrics.Namespace)

	repo := drawdb.NewRepository(db)
	service := drawservice.NewDrawService(repo, attendance, logger, drawMetrics, obs.Tracer, db, drawservice.Config{
		MatchesPerPair: cfg.Draw.MatchesPerPair,
		StrictSchedule: cfg.Draw.StrictSchedule,
	})

	var queue *drawqueue.Service
	if cfg.Draw.SchedulerEnabled {
		var err error
		queue, err = drawqueue.NewService(ctx, db, logger, cfg.Postgres.DSN, drawMetrics, eventBus)
		if err != nil {
			return nil, fmt.Errorf("failed to create draw queue: %w", err)
		}
		service.SetScheduler(queue)
	}

	handlers := drawhandlers.NewDrawHandlers(service, logger, obs.Tracer)
	drawRouter := drawrouter.NewDrawRouter(logger, router, eventBus, eventBus, obs.Tracer)
	if err := drawRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure draw router: %w", err)
	}

	return &Module{
		Service:       service,
		HTTP:          drawhttp.NewDrawHTTPHandlers(service, logger),
		Pairs:         drawservice.NewPairDirectory(repo),
		queue:         queue,
		router:        drawRouter,
		observability: obs,
	}, nil
}

// Run starts the queue, if any, and blocks until ctx is cancelled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting draw module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if m.queue != nil {
		if err := m.queue.Start(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to start draw queue", attr.Error(err))
		}
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Draw module goroutine stopped")
}

// HealthCheck reports whether the draw queue can reach its table.
func (m *Module) HealthCheck(ctx context.Context) error {
	if m.queue == nil {
		return nil
	}
	return m.queue.HealthCheck(ctx)
}

// Close stops the queue. The shared router is closed by the app.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	var err error
	if m.queue != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), queueStopTimeout)
		defer cancel()
		err = m.queue.Stop(stopCtx)
	}
	m.observability.Logger.Info("Draw module stopped")
	return err
}
