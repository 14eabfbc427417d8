package scorehandlers

import (
	"context"

	scoreevents "github.com/Black-And-White-Club/league-night/app/events/score"
	scoreservice "github.com/Black-And-White-Club/league-night/app/modules/score/application"
	"github.com/Black-And-White-Club/league-night/app/shared/handlerwrapper"
	"github.com/Black-And-White-Club/league-night/app/shared/observability/attr"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
)

// HandleScoreSubmitRequested stores a player's result and publishes the new total.
func (h *ScoreHandlers) HandleScoreSubmitRequested(ctx context.Context, payload *scoreevents.ScoreSubmitRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "ScoreHandlers.HandleScoreSubmitRequested")
	defer span.End()

	event := sharedtypes.EventKey{LeagueID: payload.LeagueID, Date: payload.EventDate}
	result, err := h.service.SubmitScore(ctx, scoreservice.SubmitScoreCommand{
		Event:           event,
		Player:          payload.PlayerID,
		Victories:       payload.Victories,
		Defeats:         payload.Defeats,
		AppliedVictims:  payload.AppliedVictims,
		BBQParticipated: payload.BBQParticipated,
		Confirmed:       payload.Confirmed,
	})
	if err != nil {
		if isBusinessError(err) {
			h.logger.WarnContext(ctx, "Score submission rejected",
				attr.ExtractCorrelationID(ctx),
				attr.Event(event),
				attr.PlayerID(payload.PlayerID),
				attr.Error(err),
			)
			return failed(&scoreevents.ScoreFailedPayloadV1{
				LeagueID:  payload.LeagueID,
				EventDate: payload.EventDate,
				PlayerID:  payload.PlayerID,
				Reason:    err.Error(),
			}), nil
		}
		return nil, err
	}

	if len(result.FailedRecomputes) > 0 {
		h.logger.WarnContext(ctx, "Score stored with stale victims",
			attr.ExtractCorrelationID(ctx),
			attr.Event(event),
			attr.Any("failed_recomputes", result.FailedRecomputes),
		)
	}

	return []handlerwrapper.Result{{
		Topic: scoreevents.ScoreSubmittedV1,
		Payload: &scoreevents.ScoreSubmittedPayloadV1{
			LeagueID:         payload.LeagueID,
			EventDate:        payload.EventDate,
			PlayerID:         payload.PlayerID,
			TotalPoints:      result.Score.TotalPoints,
			Recomputed:       result.Recomputed,
			FailedRecomputes: result.FailedRecomputes,
		},
	}}, nil
}

func (h *ScoreHandlers) HandleManualBlowoutRequested(ctx context.Context, payload *scoreevents.ScoreManualBlowoutRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "ScoreHandlers.HandleManualBlowoutRequested")
	defer span.End()

	result, err := h.service.SubmitManualBlowout(ctx, scoreservice.ManualBlowoutCommand{
		Event:       sharedtypes.EventKey{LeagueID: payload.LeagueID, Date: payload.EventDate},
		Appliers:    payload.Appliers,
		Victims:     payload.Victims,
		RequestedBy: payload.RequestedBy,
	})
	if err != nil {
		if isBusinessError(err) {
			return failed(&scoreevents.ScoreFailedPayloadV1{
				LeagueID:  payload.LeagueID,
				EventDate: payload.EventDate,
				Reason:    err.Error(),
			}), nil
		}
		return nil, err
	}

	return []handlerwrapper.Result{{
		Topic: scoreevents.ScoreBlowoutRecordedV1,
		Payload: &scoreevents.ScoreBlowoutRecordedPayloadV1{
			LeagueID:         payload.LeagueID,
			EventDate:        payload.EventDate,
			Appliers:         payload.Appliers,
			Victims:          payload.Victims,
			Recomputed:       result.Recomputed,
			FailedRecomputes: result.FailedRecomputes,
		},
	}}, nil
}

func (h *ScoreHandlers) HandleLeagueResetRequested(ctx context.Context, payload *scoreevents.ScoreLeagueResetRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "ScoreHandlers.HandleLeagueResetRequested")
	defer span.End()

	result, err := h.service.ResetLeagueScores(ctx, scoreservice.ResetLeagueCommand{
		LeagueID:    payload.LeagueID,
		Confirm:     payload.Confirm,
		RequestedBy: payload.RequestedBy,
	})
	if err != nil {
		if isBusinessError(err) {
			return failed(&scoreevents.ScoreFailedPayloadV1{LeagueID: payload.LeagueID, Reason: err.Error()}), nil
		}
		return nil, err
	}

	return []handlerwrapper.Result{{
		Topic: scoreevents.ScoreLeagueResetV1,
		Payload: &scoreevents.ScoreLeagueResetPayloadV1{
			LeagueID:        result.LeagueID,
			BlowoutsDeleted: result.BlowoutsDeleted,
			ScoresReset:     result.ScoresReset,
		},
	}}, nil
}
