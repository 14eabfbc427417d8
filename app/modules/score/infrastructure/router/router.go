package scorerouter

import (
	"context"
	"log/slog"

	"github.com/Black-And-White-Club/league-night/app/eventbus"
	scoreevents "github.com/Black-And-White-Club/league-night/app/events/score"
	scorehandlers "github.com/Black-And-White-Club/league-night/app/modules/score/infrastructure/handlers"
	"github.com/Black-And-White-Club/league-night/app/shared/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// ScoreRouter handles Watermill handler registration for score events.
type ScoreRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	tracer     trace.Tracer
}

// NewScoreRouter creates a new ScoreRouter.
func NewScoreRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	tracer trace.Tracer,
) *ScoreRouter {
	return &ScoreRouter{
		logger:     logger,
		router:     router,
		subscriber: subscriber,
		publisher:  publisher,
		tracer:     tracer,
	}
}

// Configure ensures the score stream exists and registers the request
// handlers. Outcomes are published on the same stream.
func (r *ScoreRouter) Configure(ctx context.Context, handlers scorehandlers.Handlers) error {
	if err := r.subscriber.CreateStream(ctx, scoreevents.StreamName, scoreevents.StreamSubjects...); err != nil {
		return err
	}

	deps := handlerDeps{
		router:     r.router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
	}

	registerHandler(deps, scoreevents.ScoreSubmitRequestedV1, handlers.HandleScoreSubmitRequested)
	registerHandler(deps, scoreevents.ScoreManualBlowoutRequestedV1, handlers.HandleManualBlowoutRequested)
	registerHandler(deps, scoreevents.ScoreLeagueResetRequestedV1, handlers.HandleLeagueResetRequested)

	r.logger.InfoContext(ctx, "Score module handlers registered successfully")
	return nil
}

type handlerDeps struct {
	router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	logger     *slog.Logger
	tracer     trace.Tracer
}

func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "score." + topic

	deps.router.AddHandler(
		handlerName,
		topic,
		deps.subscriber,
		"",
		deps.publisher,
		handlerwrapper.WrapTransformingTyped(handlerName, deps.logger, deps.tracer, handler),
	)
}
