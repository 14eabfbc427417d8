package drawrouter

import (
	"context"
	"log/slog"

	"github.com/Black-And-White-Club/league-night/app/eventbus"
	drawevents "github.com/Black-And-White-Club/league-night/app/events/draw"
	drawhandlers "github.com/Black-And-White-Club/league-night/app/modules/draw/infrastructure/handlers"
	"github.com/Black-And-White-Club/league-night/app/shared/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// DrawRouter handles Watermill handler registration for draw events.
type DrawRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	tracer     trace.Tracer
}

// NewDrawRouter creates a new DrawRouter.
func NewDrawRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	tracer trace.Tracer,
) *DrawRouter {
	return &DrawRouter{
		logger:     logger,
		router:     router,
		subscriber: subscriber,
		publisher:  publisher,
		tracer:     tracer,
	}
}

// Configure ensures the draw stream exists and registers the request
// handlers. Outcomes are published on the same stream.
func (r *DrawRouter) Configure(ctx context.Context, handlers drawhandlers.Handlers) error {
	if err := r.subscriber.CreateStream(ctx, drawevents.StreamName, drawevents.StreamSubjects...); err != nil {
		return err
	}

	deps := handlerDeps{
		router:     r.router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
	}

	registerHandler(deps, drawevents.DrawRunRequestedV1, handlers.HandleDrawRunRequested)
	registerHandler(deps, drawevents.DrawDeleteRequestedV1, handlers.HandleDrawDeleteRequested)
	registerHandler(deps, drawevents.DrawScheduleRequestedV1, handlers.HandleDrawScheduleRequested)

	r.logger.InfoContext(ctx, "Draw module handlers registered successfully")
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
	handlerName := "draw." + topic

	deps.router.AddHandler(
		handlerName,
		topic,
		deps.subscriber,
		"",
		deps.publisher,
		handlerwrapper.WrapTransformingTyped(handlerName, deps.logger, deps.tracer, handler),
	)
}
