package drawservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	drawdomain "github.com/Black-And-White-Club/league-night/app/modules/draw/domain"
	drawdb "github.com/Black-And-White-Club/league-night/app/modules/draw/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-night/app/shared/metrics"
	"github.com/Black-And-White-Club/league-night/app/shared/observability/attr"
	"github.com/Black-And-White-Club/league-night/app/shared/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "DrawService"

// DrawService implements the Service interface.
type DrawService struct {
	repo       drawdb.Repository
	attendance AttendanceSource
	scheduler  RunScheduler
	logger     *slog.Logger
	metrics    metrics.DrawMetrics
	tracer     trace.Tracer
	db         *bun.DB
	config     Config
	newSeed    func() int64
}

// NewDrawService creates a new DrawService.
func NewDrawService(
	repo drawdb.Repository,
	attendance AttendanceSource,
	logger *slog.Logger,
	metrics metrics.DrawMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	config Config,
) *DrawService {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MatchesPerPair <= 0 {
		config.MatchesPerPair = drawdomain.DefaultMatchesPerPair
	}
	return &DrawService{
		repo:       repo,
		attendance: attendance,
		logger:     logger,
		metrics:    metrics,
		tracer:     tracer,
		db:         db,
		config:     config,
		newSeed:    rand.Int64,
	}
}

var _ Service = (*DrawService)(nil)

// SetScheduler enables ScheduleDraw. The queue needs the service's publisher
// wiring first, so it is attached after construction.
func (s *DrawService) SetScheduler(scheduler RunScheduler) {
	s.scheduler = scheduler
}

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *DrawService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
		}
	}()

	s.logger.InfoContext(ctx, "Operation triggered", attr.ExtractCorrelationID(ctx), attr.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			}
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		}
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *DrawService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	return result, err
}
