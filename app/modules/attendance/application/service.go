package attendanceservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	attendancedb "github.com/Black-And-White-Club/league-night/app/modules/attendance/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-night/app/shared/metrics"
	"github.com/Black-And-White-Club/league-night/app/shared/observability/attr"
	"github.com/Black-And-White-Club/league-night/app/shared/results"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "AttendanceService"

// AttendanceService implements the Service interface.
type AttendanceService struct {
	repo     attendancedb.Repository
	resolver *Resolver
	logger   *slog.Logger
	metrics  metrics.OperationMetrics
	tracer   trace.Tracer
	db       *bun.DB
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(
	repo attendancedb.Repository,
	logger *slog.Logger,
	metrics metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *AttendanceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AttendanceService{
		repo:     repo,
		resolver: NewResolver(repo),
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		db:       db,
	}
}

var _ Service = (*AttendanceService)(nil)

// Resolver returns the transaction-scoped view used by other modules.
func (s *AttendanceService) Resolver() *Resolver { return s.resolver }

func (s *AttendanceService) EligiblePlayers(ctx context.Context, event sharedtypes.EventKey) ([]sharedtypes.RankedPlayer, error) {
	result, err := withTelemetry(s, ctx, "EligiblePlayers", event.String(), func(ctx context.Context) (results.OperationResult[[]sharedtypes.RankedPlayer, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[[]sharedtypes.RankedPlayer, error], error) {
			players, err := s.resolver.EligiblePlayers(ctx, db, event)
			if err != nil {
				return results.OperationResult[[]sharedtypes.RankedPlayer, error]{}, err
			}
			return results.SuccessResult[[]sharedtypes.RankedPlayer, error](players), nil
		})
	})
	if err != nil {
		return nil, err
	}
	return *result.Success, nil
}

func (s *AttendanceService) StatusOf(ctx context.Context, event sharedtypes.EventKey, player sharedtypes.PlayerID) (sharedtypes.AttendanceStatus, error) {
	result, err := withTelemetry(s, ctx, "StatusOf", event.String()+":"+string(player), func(ctx context.Context) (results.OperationResult[sharedtypes.AttendanceStatus, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[sharedtypes.AttendanceStatus, error], error) {
			status, err := s.resolver.StatusOf(ctx, db, event, player)
			if err != nil {
				return results.OperationResult[sharedtypes.AttendanceStatus, error]{}, err
			}
			return results.SuccessResult[sharedtypes.AttendanceStatus, error](status), nil
		})
	})
	if err != nil {
		return "", err
	}
	return *result.Success, nil
}

// RecordStatus stores the latest response of a player.
func (s *AttendanceService) RecordStatus(ctx context.Context, cmd RecordStatusCommand) error {
	result, err := withTelemetry(s, ctx, "RecordStatus", cmd.Event.String()+":"+string(cmd.Player), func(ctx context.Context) (results.OperationResult[bool, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[bool, error], error) {
			return s.recordStatusLogic(ctx, db, cmd)
		})
	})
	if err != nil {
		return err
	}
	if result.IsFailure() {
		return *result.Failure
	}
	return nil
}

func (s *AttendanceService) recordStatusLogic(ctx context.Context, db bun.IDB, cmd RecordStatusCommand) (results.OperationResult[bool, error], error) {
	if !cmd.Status.IsValid() {
		return results.FailureResult[bool, error](fmt.Errorf("%w: %q", ErrInvalidStatus, cmd.Status)), nil
	}
	if cmd.Player == "" || cmd.Event.LeagueID == "" {
		return results.FailureResult[bool, error](fmt.Errorf("%w: league and player are required", ErrInvalidStatus)), nil
	}
	if _, err := sharedtypes.ParseEventDate(string(cmd.Event.Date)); err != nil {
		return results.FailureResult[bool, error](fmt.Errorf("%w: %v", ErrInvalidStatus, err)), nil
	}

	row := &attendancedb.Attendance{
		LeagueID:    cmd.Event.LeagueID,
		EventDate:   cmd.Event.Date,
		PlayerID:    cmd.Player,
		Status:      cmd.Status,
		RespondedAt: cmd.RespondedAt.UTC(),
	}
	if err := s.repo.UpsertStatus(ctx, db, row); err != nil {
		return results.OperationResult[bool, error]{}, fmt.Errorf("failed to record status: %w", err)
	}
	return results.SuccessResult[bool, error](true), nil
}

// SetRankingPoints mirrors a player's ranking from the membership system.
func (s *AttendanceService) SetRankingPoints(ctx context.Context, league sharedtypes.LeagueID, player sharedtypes.PlayerID, points float64) error {
	_, err := withTelemetry(s, ctx, "SetRankingPoints", string(league)+":"+string(player), func(ctx context.Context) (results.OperationResult[bool, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[bool, error], error) {
			member := &attendancedb.LeagueMember{LeagueID: league, PlayerID: player, RankingPoints: points}
			if err := s.repo.UpsertMember(ctx, db, member); err != nil {
				return results.OperationResult[bool, error]{}, fmt.Errorf("failed to set ranking points: %w", err)
			}
			return results.SuccessResult[bool, error](true), nil
		})
	})
	return err
}

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *AttendanceService,
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

	s.logger.DebugContext(ctx, "Operation triggered", attr.ExtractCorrelationID(ctx), attr.String("operation", operationName))

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

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *AttendanceService,
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
