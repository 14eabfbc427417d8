package drawhandlers

import (
	"errors"
	"log/slog"

	drawevents "github.com/Black-And-White-Club/league-night/app/events/draw"
	drawservice "github.com/Black-And-White-Club/league-night/app/modules/draw/application"
	drawdomain "github.com/Black-And-White-Club/league-night/app/modules/draw/domain"
	drawdb "github.com/Black-And-White-Club/league-night/app/modules/draw/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-night/app/shared/handlerwrapper"
	"go.opentelemetry.io/otel/trace"
)

// DrawHandlers implements the Handlers interface.
type DrawHandlers struct {
	service drawservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewDrawHandlers creates a new DrawHandlers instance.
func NewDrawHandlers(
	service drawservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &DrawHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// isBusinessError reports whether err is an expected outcome to publish as
// draw.failed rather than an infrastructure error to retry.
func isBusinessError(err error) bool {
	return errors.Is(err, drawdomain.ErrInsufficientPlayers) ||
		errors.Is(err, drawdomain.ErrPartialSchedule) ||
		errors.Is(err, drawservice.ErrInvalidRequest) ||
		errors.Is(err, drawservice.ErrSchedulingUnavailable) ||
		errors.Is(err, drawdb.ErrNotFound)
}

func failed(payload *drawevents.DrawFailedPayloadV1) []handlerwrapper.Result {
	return []handlerwrapper.Result{{Topic: drawevents.DrawFailedV1, Payload: payload}}
}

func completedPayload(r *drawservice.DrawResult) *drawevents.DrawCompletedPayloadV1 {
	out := &drawevents.DrawCompletedPayloadV1{
		DrawID:    r.Draw.ID,
		LeagueID:  r.Draw.LeagueID,
		EventDate: r.Draw.EventDate,
		Seed:      r.Draw.Seed,
		Pairs:     make([]drawevents.PairV1, 0, len(r.Pairs)),
		Matches:   make([]drawevents.MatchV1, 0, len(r.Matches)),
	}
	for _, p := range r.Pairs {
		out.Pairs = append(out.Pairs, drawevents.PairV1{Seq: p.Seq, Tier: string(p.Tier), Player1: p.Player1, Player2: p.Player2})
	}
	for _, m := range r.Matches {
		out.Matches = append(out.Matches, drawevents.MatchV1{Seq: m.Seq, Tier: string(m.Tier), PairA: m.PairA, PairB: m.PairB})
	}
	for _, f := range r.ForcedRepeats {
		out.ForcedRepeats = append(out.ForcedRepeats, drawevents.ForcedRepeatV1{Tier: string(f.Tier), Player1: f.Player1, Player2: f.Player2})
	}
	for _, w := range r.Shortfalls {
		out.Shortfalls = append(out.Shortfalls, drawevents.ShortfallV1{Tier: string(w.Tier), PairSeq: w.PairSeq, Scheduled: w.Scheduled, Wanted: w.Wanted})
	}
	return out
}
