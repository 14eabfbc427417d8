package score

import (
	"context"
	"fmt"
	"sync"

	"github.com/Black-And-White-Club/league-night/app/eventbus"
	scoreservice "github.com/Black-And-White-Club/league-night/app/modules/score/application"
	scorehandlers "github.com/Black-And-White-Club/league-night/app/modules/score/infrastructure/handlers"
	scorehttp "github.com/Black-And-White-Club/league-night/app/modules/score/infrastructure/http"
	scoredb "github.com/Black-And-White-Club/league-night/app/modules/score/infrastructure/repositories"
	scorerouter "github.com/Black-And-White-Club/league-night/app/modules/score/infrastructure/router"
	"github.com/Black-And-White-Club/league-night/app/shared/metrics"
	"github.com/Black-And-White-Club/league-night/app/shared/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// Module represents the score module.
type Module struct {
	Service       *scoreservice.ScoreService
	HTTP          *scorehttp.ScoreHTTPHandlers
	router        *scorerouter.ScoreRouter
	cancelFunc    context.CancelFunc
	observability observability.Observability
}

// NewScoreModule creates a new instance of the score module. status and
// pairs come from the attendance and draw modules.
func NewScoreModule(
	ctx context.Context,
	obs observability.Observability,
	status scoreservice.StatusSource,
	pairs scoreservice.PairDirectory,
	eventBus eventbus.EventBus,
	router *message.Router,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "score.NewScoreModule initializing")

	scoreMetrics := metrics.NewPrometheusScoreMetrics(obs.Registry, metrics.Namespace)
	service := scoreservice.NewScoreService(scoredb.NewRepository(db), status, pairs, logger, scoreMetrics, obs.Tracer, db)

	handlers := scorehandlers.NewScoreHandlers(service, logger, obs.Tracer)
	scoreRouter := scorerouter.NewScoreRouter(logger, router, eventBus, eventBus, obs.Tracer)
	if err := scoreRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure score router: %w", err)
	}

	return &Module{
		Service:       service,
		HTTP:          scorehttp.NewScoreHTTPHandlers(service, logger),
		router:        scoreRouter,
		observability: obs,
	}, nil
}

// Run blocks until ctx is cancelled. Handlers run on the shared router.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.observability.Logger.InfoContext(ctx, "Starting score module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.observability.Logger.InfoContext(ctx, "Score module goroutine stopped")
}

func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.observability.Logger.Info("Score module stopped")
	return nil
}
