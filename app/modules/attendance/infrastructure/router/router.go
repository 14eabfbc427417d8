package attendancerouter

import (
	"context"
	"log/slog"

	"github.com/Black-And-White-Club/league-night/app/eventbus"
	attendanceevents "github.com/Black-And-White-Club/league-night/app/events/attendance"
	attendancehandlers "github.com/Black-And-White-Club/league-night/app/modules/attendance/infrastructure/handlers"
	"github.com/Black-And-White-Club/league-night/app/shared/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// AttendanceRouter handles Watermill handler registration for attendance events.
type AttendanceRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	tracer     trace.Tracer
}

func NewAttendanceRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	tracer trace.Tracer,
) *AttendanceRouter {
	return &AttendanceRouter{
		logger:     logger,
		router:     router,
		subscriber: subscriber,
		publisher:  publisher,
		tracer:     tracer,
	}
}

// Configure ensures the stream exists and registers the handlers.
func (r *AttendanceRouter) Configure(ctx context.Context, handlers attendancehandlers.Handlers) error {
	if err := r.subscriber.CreateStream(ctx, attendanceevents.StreamName, attendanceevents.StreamSubjects...); err != nil {
		return err
	}

	deps := handlerDeps{
		router:     r.router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
	}

	registerHandler(deps, attendanceevents.AttendanceStatusUpdatedV1, handlers.HandleStatusUpdated)
	registerHandler(deps, attendanceevents.MemberRankingUpdatedV1, handlers.HandleMemberRankingUpdated)

	r.logger.InfoContext(ctx, "Attendance module handlers registered successfully")
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
	handlerName := "attendance." + topic

	deps.router.AddHandler(
		handlerName,
		topic,
		deps.subscriber,
		"",
		deps.publisher,
		handlerwrapper.WrapTransformingTyped(handlerName, deps.logger, deps.tracer, handler),
	)
}
