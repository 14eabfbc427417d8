package scorehandlers

import (
	"context"

	scoreevents "github.com/Black-And-White-Club/league-night/app/events/score"
	"github.com/Black-And-White-Club/league-night/app/shared/handlerwrapper"
)

// Handlers defines the interface for score event handlers.
type Handlers interface {
	HandleScoreSubmitRequested(ctx context.Context, payload *scoreevents.ScoreSubmitRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleManualBlowoutRequested(ctx context.Context, payload *scoreevents.ScoreManualBlowoutRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleLeagueResetRequested(ctx context.Context, payload *scoreevents.ScoreLeagueResetRequestedPayloadV1) ([]handlerwrapper.Result, error)
}
