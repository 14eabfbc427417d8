package scorehandlers

import (
	"errors"
	"log/slog"

	scoreevents "github.com/Black-And-White-Club/league-night/app/events/score"
	scoreservice "github.com/Black-And-White-Club/league-night/app/modules/score/application"
	scoredomain "github.com/Black-And-White-Club/league-night/app/modules/score/domain"
	"github.com/Black-And-White-Club/league-night/app/shared/handlerwrapper"
	"go.opentelemetry.io/otel/trace"
)

// ScoreHandlers implements the Handlers interface.
type ScoreHandlers struct {
	service scoreservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewScoreHandlers creates a new ScoreHandlers instance.
func NewScoreHandlers(
	service scoreservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &ScoreHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

func isBusinessError(err error) bool {
	return errors.Is(err, scoredomain.ErrInvalidScoreInput) ||
		errors.Is(err, scoreservice.ErrPlayerNotEligible) ||
		errors.Is(err, scoreservice.ErrConfirmationRequired)
}

func failed(payload *scoreevents.ScoreFailedPayloadV1) []handlerwrapper.Result {
	return []handlerwrapper.Result{{Topic: scoreevents.ScoreFailedV1, Payload: payload}}
}
