package drawservice

import (
	"context"
	"fmt"

	"github.com/Black-And-White-Club/league-night/app/shared/results"
)

// ScheduleDraw enqueues a draw run at the time attendance closes. A closing
// time in the past runs the draw as soon as a worker is free.
func (s *DrawService) ScheduleDraw(ctx context.Context, cmd ScheduleDrawCommand) (*ScheduledRun, error) {
	if err := validateEvent(cmd.Event); err != nil {
		return nil, err
	}
	if s.scheduler == nil {
		return nil, ErrSchedulingUnavailable
	}

	runAt := cmd.ClosesAt.UTC()
	if runAt.IsZero() {
		return nil, fmt.Errorf("%w: closes_at is required", ErrInvalidRequest)
	}

	result, err := withTelemetry(s, ctx, "ScheduleDraw", cmd.Event.String(), func(ctx context.Context) (results.OperationResult[*ScheduledRun, error], error) {
		run, err := s.scheduler.ScheduleDrawRun(ctx, cmd.Event, runAt, cmd.RequestedBy)
		if err != nil {
			return results.OperationResult[*ScheduledRun, error]{}, err
		}
		return results.SuccessResult[*ScheduledRun, error](run), nil
	})
	if err != nil {
		return nil, err
	}
	return *result.Success, nil
}
