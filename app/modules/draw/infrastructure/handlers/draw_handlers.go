package drawhandlers

import (
	"context"

	drawevents "github.com/Black-And-White-Club/league-night/app/events/draw"
	drawservice "github.com/Black-And-White-Club/league-night/app/modules/draw/application"
	"github.com/Black-And-White-Club/league-night/app/shared/handlerwrapper"
	"github.com/Black-And-White-Club/league-night/app/shared/observability/attr"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/google/uuid"
)

// HandleDrawRunRequested runs the draw of an event and publishes the result.
func (h *DrawHandlers) HandleDrawRunRequested(ctx context.Context, payload *drawevents.DrawRunRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "DrawHandlers.HandleDrawRunRequested")
	defer span.End()

	event := sharedtypes.EventKey{LeagueID: payload.LeagueID, Date: payload.EventDate}
	result, err := h.service.RunDraw(ctx, drawservice.RunDrawCommand{
		Event:     event,
		CreatedBy: payload.RequestedBy,
		Seed:      payload.Seed,
	})
	if err != nil {
		if isBusinessError(err) {
			h.logger.WarnContext(ctx, "Draw run rejected",
				attr.ExtractCorrelationID(ctx),
				attr.Event(event),
				attr.Error(err),
			)
			return failed(&drawevents.DrawFailedPayloadV1{
				LeagueID:  payload.LeagueID,
				EventDate: payload.EventDate,
				Reason:    err.Error(),
			}), nil
		}
		return nil, err
	}

	h.logger.InfoContext(ctx, "Draw completed",
		attr.ExtractCorrelationID(ctx),
		attr.Event(event),
		attr.DrawID(result.Draw.ID),
		attr.Int("pairs", len(result.Pairs)),
		attr.Int("matches", len(result.Matches)),
		attr.Bool("replaced", result.Replaced),
	)
	return []handlerwrapper.Result{{Topic: drawevents.DrawCompletedV1, Payload: completedPayload(result)}}, nil
}

func (h *DrawHandlers) HandleDrawDeleteRequested(ctx context.Context, payload *drawevents.DrawDeleteRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "DrawHandlers.HandleDrawDeleteRequested")
	defer span.End()

	id, err := uuid.Parse(string(payload.DrawID))
	if err != nil {
		h.logger.WarnContext(ctx, "Ignoring delete request with malformed draw id",
			attr.DrawID(payload.DrawID),
			attr.Error(err),
		)
		return failed(&drawevents.DrawFailedPayloadV1{DrawID: payload.DrawID, Reason: "malformed draw id"}), nil
	}

	deleted, err := h.service.DeleteDraw(ctx, id)
	if err != nil {
		if isBusinessError(err) {
			return failed(&drawevents.DrawFailedPayloadV1{DrawID: payload.DrawID, Reason: err.Error()}), nil
		}
		return nil, err
	}

	return []handlerwrapper.Result{{
		Topic: drawevents.DrawDeletedV1,
		Payload: &drawevents.DrawDeletedPayloadV1{
			DrawID:    deleted.ID,
			LeagueID:  deleted.LeagueID,
			EventDate: deleted.EventDate,
		},
	}}, nil
}

func (h *DrawHandlers) HandleDrawScheduleRequested(ctx context.Context, payload *drawevents.DrawScheduleRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "DrawHandlers.HandleDrawScheduleRequested")
	defer span.End()

	run, err := h.service.ScheduleDraw(ctx, drawservice.ScheduleDrawCommand{
		Event:       sharedtypes.EventKey{LeagueID: payload.LeagueID, Date: payload.EventDate},
		ClosesAt:    payload.ClosesAt,
		RequestedBy: payload.RequestedBy,
	})
	if err != nil {
		if isBusinessError(err) {
			return failed(&drawevents.DrawFailedPayloadV1{
				LeagueID:  payload.LeagueID,
				EventDate: payload.EventDate,
				Reason:    err.Error(),
			}), nil
		}
		return nil, err
	}

	return []handlerwrapper.Result{{
		Topic: drawevents.DrawScheduledV1,
		Payload: &drawevents.DrawScheduledPayloadV1{
			LeagueID:  payload.LeagueID,
			EventDate: payload.EventDate,
			RunAt:     run.RunAt,
			JobID:     run.JobID,
			Duplicate: run.Duplicate,
		},
	}}, nil
}
