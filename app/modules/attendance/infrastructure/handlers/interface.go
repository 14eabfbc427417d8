package attendancehandlers

import (
	"context"

	attendanceevents "github.com/Black-And-White-Club/league-night/app/events/attendance"
	"github.com/Black-And-White-Club/league-night/app/shared/handlerwrapper"
)

// Handlers defines the interface for attendance event handlers.
type Handlers interface {
	HandleStatusUpdated(ctx context.Context, payload *attendanceevents.StatusUpdatedPayloadV1) ([]handlerwrapper.Result, error)
	HandleMemberRankingUpdated(ctx context.Context, payload *attendanceevents.MemberRankingUpdatedPayloadV1) ([]handlerwrapper.Result, error)
}
