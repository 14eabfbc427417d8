package drawhandlers

import (
	"context"

	drawevents "github.com/Black-And-White-Club/league-night/app/events/draw"
	"github.com/Black-And-White-Club/league-night/app/shared/handlerwrapper"
)

// Handlers defines the interface for draw event handlers.
type Handlers interface {
	HandleDrawRunRequested(ctx context.Context, payload *drawevents.DrawRunRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleDrawDeleteRequested(ctx context.Context, payload *drawevents.DrawDeleteRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleDrawScheduleRequested(ctx context.Context, payload *drawevents.DrawScheduleRequestedPayloadV1) ([]handlerwrapper.Result, error)
}
