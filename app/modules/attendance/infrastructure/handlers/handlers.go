package attendancehandlers

import (
	"context"
	"errors"
	"log/slog"

	attendanceevents "github.com/Black-And-White-Club/league-night/app/events/attendance"
	attendanceservice "github.com/Black-And-White-Club/league-night/app/modules/attendance/application"
	"github.com/Black-And-White-Club/league-night/app/shared/handlerwrapper"
	"github.com/Black-And-White-Club/league-night/app/shared/observability/attr"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"go.opentelemetry.io/otel/trace"
)

// AttendanceHandlers implements the Handlers interface.
type AttendanceHandlers struct {
	service attendanceservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewAttendanceHandlers creates a new AttendanceHandlers instance.
func NewAttendanceHandlers(
	service attendanceservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &AttendanceHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandleStatusUpdated mirrors an attendance response. Invalid statuses are
// logged and acknowledged; they never become valid on redelivery.
func (h *AttendanceHandlers) HandleStatusUpdated(ctx context.Context, payload *attendanceevents.StatusUpdatedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "AttendanceHandlers.HandleStatusUpdated")
	defer span.End()

	event := sharedtypes.EventKey{LeagueID: payload.LeagueID, Date: payload.EventDate}
	err := h.service.RecordStatus(ctx, attendanceservice.RecordStatusCommand{
		Event:       event,
		Player:      payload.PlayerID,
		Status:      payload.Status,
		RespondedAt: payload.RespondedAt,
	})
	if err != nil {
		if errors.Is(err, attendanceservice.ErrInvalidStatus) {
			h.logger.WarnContext(ctx, "Ignoring invalid attendance update",
				attr.Event(event),
				attr.PlayerID(payload.PlayerID),
				attr.Error(err),
			)
			return nil, nil
		}
		return nil, err
	}
	return nil, nil
}

func (h *AttendanceHandlers) HandleMemberRankingUpdated(ctx context.Context, payload *attendanceevents.MemberRankingUpdatedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "AttendanceHandlers.HandleMemberRankingUpdated")
	defer span.End()

	if payload.LeagueID == "" || payload.PlayerID == "" {
		h.logger.WarnContext(ctx, "Ignoring ranking update without league or player")
		return nil, nil
	}
	if err := h.service.SetRankingPoints(ctx, payload.LeagueID, payload.PlayerID, payload.RankingPoints); err != nil {
		return nil, err
	}
	return nil, nil
}
