package drawqueue

import (
	"context"
	"fmt"
	"log/slog"

	drawevents "github.com/Black-And-White-Club/league-night/app/events/draw"
	"github.com/Black-And-White-Club/league-night/app/shared/handlerwrapper"
	"github.com/Black-And-White-Club/league-night/app/shared/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/riverqueue/river"
)

// DrawRunWorker turns a due DrawRunJob into a draw.run.requested event so the
// run goes through the same handler as any other request.
type DrawRunWorker struct {
	river.WorkerDefaults[DrawRunJob]
	logger    *slog.Logger
	publisher message.Publisher
}

func NewDrawRunWorker(logger *slog.Logger, publisher message.Publisher) *DrawRunWorker {
	return &DrawRunWorker{logger: logger, publisher: publisher}
}

func (w *DrawRunWorker) Work(ctx context.Context, job *river.Job[DrawRunJob]) error {
	args := job.Args
	msg, err := handlerwrapper.ToMessage(handlerwrapper.Result{
		Topic: drawevents.DrawRunRequestedV1,
		Payload: &drawevents.DrawRunRequestedPayloadV1{
			LeagueID:    args.LeagueID,
			EventDate:   args.EventDate,
			RequestedBy: args.RequestedBy,
		},
	}, "")
	if err != nil {
		return fmt.Errorf("failed to build draw run message: %w", err)
	}

	if err := w.publisher.Publish(drawevents.DrawRunRequestedV1, msg); err != nil {
		w.logger.ErrorContext(ctx, "Failed to publish scheduled draw run",
			attr.LeagueID(args.LeagueID),
			attr.EventDate(args.EventDate),
			attr.Int64("job_id", job.ID),
			attr.Error(err),
		)
		return fmt.Errorf("failed to publish draw run: %w", err)
	}

	w.logger.InfoContext(ctx, "Scheduled draw run published",
		attr.LeagueID(args.LeagueID),
		attr.EventDate(args.EventDate),
		attr.Int64("job_id", job.ID),
	)
	return nil
}
