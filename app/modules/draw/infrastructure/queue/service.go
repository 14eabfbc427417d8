package drawqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	drawservice "github.com/Black-And-White-Club/league-night/app/modules/draw/application"
	"github.com/Black-And-White-Club/league-night/app/shared/metrics"
	"github.com/Black-And-White-Club/league-night/app/shared/observability/attr"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivertype"
	"github.com/uptrace/bun"
)

const (
	queueName     = "draw"
	metricService = "river"
)

// QueueService schedules draw runs for the close of attendance.
type QueueService interface {
	drawservice.RunScheduler
	// CancelDrawRuns cancels every pending run of an event and returns how many were cancelled.
	CancelDrawRuns(ctx context.Context, event sharedtypes.EventKey) (int, error)
	GetScheduledJobs(ctx context.Context, event sharedtypes.EventKey) ([]JobInfo, error)
	HealthCheck(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// pendingStates are the job states in which a second run of the same event
// is refused. Completed and cancelled runs do not block rescheduling.
var pendingStates = []rivertype.JobState{
	rivertype.JobStateAvailable,
	rivertype.JobStatePending,
	rivertype.JobStateRetryable,
	rivertype.JobStateRunning,
	rivertype.JobStateScheduled,
}

// riverJobRow is the subset of river_job read for lookups by event.
type riverJobRow struct {
	ID          int64      `bun:"id"`
	Kind        string     `bun:"kind"`
	State       string     `bun:"state"`
	ScheduledAt *time.Time `bun:"scheduled_at"`
	Attempt     int16      `bun:"attempt"`
	MaxAttempts int16      `bun:"max_attempts"`
}

// Service handles draw run scheduling using River.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	db      *bun.DB
	metrics metrics.OperationMetrics
}

// NewService creates a River client on its own pgx pool. River requires pgx,
// while the rest of the module reads river_job through bun.
func NewService(ctx context.Context, bunDB *bun.DB, logger *slog.Logger, dsn string, opMetrics metrics.OperationMetrics, publisher message.Publisher) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("operation", "new_draw_queue_service"),
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	opMetrics.RecordOperationAttempt(ctx, "initialize_service", metricService)

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		opMetrics.RecordOperationFailure(ctx, "initialize_service", metricService)
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		opMetrics.RecordOperationFailure(ctx, "initialize_service", metricService)
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		ctxLogger.Error("Failed to ping database for River", attr.Error(err))
		opMetrics.RecordOperationFailure(ctx, "initialize_service", metricService)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewDrawRunWorker(ctxLogger, publisher))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
			queueName:          {MaxWorkers: 5},
		},
		Workers: workers,
		Logger:  logger,
	})
	if err != nil {
		pool.Close()
		ctxLogger.Error("Failed to create River client", attr.Error(err))
		opMetrics.RecordOperationFailure(ctx, "initialize_service", metricService)
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	opMetrics.RecordOperationSuccess(ctx, "initialize_service", metricService)
	opMetrics.RecordOperationDuration(ctx, "initialize_service", metricService, time.Since(start))
	ctxLogger.Info("Draw queue service initialized")

	return &Service{
		client:  riverClient,
		pool:    pool,
		logger:  ctxLogger,
		db:      bunDB,
		metrics: opMetrics,
	}, nil
}

// observe records the outcome of one queue operation.
func (s *Service) observe(ctx context.Context, operation string, start time.Time, err error) {
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, operation, metricService)
	} else {
		s.metrics.RecordOperationSuccess(ctx, operation, metricService)
	}
	s.metrics.RecordOperationDuration(ctx, operation, metricService, time.Since(start))
}

// Start starts the River workers.
func (s *Service) Start(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "start_service", metricService)

	err := s.client.Start(ctx)
	s.observe(ctx, "start_service", start, err)
	if err != nil {
		s.logger.Error("Failed to start River client", attr.Error(err))
		return fmt.Errorf("failed to start River client: %w", err)
	}
	s.logger.Info("Draw queue service started")
	return nil
}

// Stop waits for running jobs to finish and closes the pgx pool.
func (s *Service) Stop(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "stop_service", metricService)

	err := s.client.Stop(ctx)
	s.pool.Close()
	s.observe(ctx, "stop_service", start, err)
	if err != nil {
		s.logger.Error("Failed to stop River client", attr.Error(err))
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.logger.Info("Draw queue service stopped")
	return nil
}

// ScheduleDrawRun enqueues the draw of event at runAt. A pending run of the
// same event is kept and reported as a duplicate.
func (s *Service) ScheduleDrawRun(ctx context.Context, event sharedtypes.EventKey, runAt time.Time, requestedBy sharedtypes.PlayerID) (*drawservice.ScheduledRun, error) {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "schedule_draw_run", metricService)

	ctxLogger := s.logger.With(
		attr.Event(event),
		attr.Time("run_at", runAt),
	)

	res, err := s.client.Insert(ctx, DrawRunJob{
		LeagueID:    event.LeagueID,
		EventDate:   event.Date,
		RequestedBy: requestedBy,
	}, insertOpts(runAt))
	s.observe(ctx, "schedule_draw_run", start, err)
	if err != nil {
		ctxLogger.Error("Failed to schedule draw run", attr.Error(err))
		return nil, fmt.Errorf("failed to schedule draw run: %w", err)
	}

	run := &drawservice.ScheduledRun{
		JobID:     res.Job.ID,
		RunAt:     res.Job.ScheduledAt,
		Duplicate: res.UniqueSkippedAsDuplicate,
	}
	ctxLogger.Info("Draw run scheduled",
		attr.Int64("job_id", run.JobID),
		attr.Bool("duplicate", run.Duplicate),
	)
	return run, nil
}

// insertOpts dedupes on the event so it has at most one pending run.
func insertOpts(runAt time.Time) *river.InsertOpts {
	return &river.InsertOpts{
		Queue:       queueName,
		ScheduledAt: runAt,
		UniqueOpts: river.UniqueOpts{
			ByArgs:  true,
			ByState: pendingStates,
		},
	}
}

func (s *Service) pendingJobs(ctx context.Context, event sharedtypes.EventKey, states ...string) ([]riverJobRow, error) {
	var jobs []riverJobRow
	q := s.db.NewSelect().
		Table("river_job").
		Column("id", "kind", "state", "scheduled_at", "attempt", "max_attempts").
		Where("kind = ?", DrawRunJob{}.Kind()).
		Where("args->>'league_id' = ?", string(event.LeagueID)).
		Where("args->>'event_date' = ?", string(event.Date)).
		Order("scheduled_at ASC NULLS LAST", "id ASC")
	if len(states) > 0 {
		q = q.Where("state IN (?)", bun.In(states))
	}
	if err := q.Scan(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// CancelDrawRuns cancels the runs of an event that have not started yet.
func (s *Service) CancelDrawRuns(ctx context.Context, event sharedtypes.EventKey) (int, error) {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "cancel_draw_runs", metricService)
	ctxLogger := s.logger.With(attr.Event(event))

	jobs, err := s.pendingJobs(ctx, event,
		string(rivertype.JobStateAvailable),
		string(rivertype.JobStateScheduled),
		string(rivertype.JobStateRetryable),
	)
	if err != nil {
		s.observe(ctx, "cancel_draw_runs", start, err)
		ctxLogger.Error("Failed to query draw runs for cancellation", attr.Error(err))
		return 0, fmt.Errorf("failed to query draw runs for cancellation: %w", err)
	}

	cancelled := 0
	for _, job := range jobs {
		if _, err := s.client.JobCancel(ctx, job.ID); err != nil {
			ctxLogger.Warn("Failed to cancel draw run",
				attr.Int64("job_id", job.ID),
				attr.Error(err),
			)
			continue
		}
		cancelled++
	}

	var partial error
	if cancelled != len(jobs) {
		partial = fmt.Errorf("cancelled %d of %d draw runs", cancelled, len(jobs))
	}
	s.observe(ctx, "cancel_draw_runs", start, partial)
	ctxLogger.Info("Draw run cancellation completed",
		attr.Int("total_found", len(jobs)),
		attr.Int("cancelled_count", cancelled),
	)
	return cancelled, nil
}

// GetScheduledJobs lists every run of an event, for monitoring.
func (s *Service) GetScheduledJobs(ctx context.Context, event sharedtypes.EventKey) ([]JobInfo, error) {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "get_scheduled_jobs", metricService)

	jobs, err := s.pendingJobs(ctx, event)
	s.observe(ctx, "get_scheduled_jobs", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled draw runs: %w", err)
	}
	return toJobInfo(jobs), nil
}

func toJobInfo(jobs []riverJobRow) []JobInfo {
	out := make([]JobInfo, len(jobs))
	for i, job := range jobs {
		scheduledAt := ""
		if job.ScheduledAt != nil {
			scheduledAt = job.ScheduledAt.UTC().Format(time.RFC3339)
		}
		out[i] = JobInfo{
			ID:          job.ID,
			State:       job.State,
			ScheduledAt: scheduledAt,
			Attempt:     int(job.Attempt),
			MaxAttempts: int(job.MaxAttempts),
		}
	}
	return out
}

// HealthCheck verifies that river_job is reachable.
func (s *Service) HealthCheck(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "health_check", metricService)

	if s.client == nil {
		err := fmt.Errorf("river client is nil")
		s.observe(ctx, "health_check", start, err)
		return err
	}

	var count int
	err := s.db.NewSelect().
		Table("river_job").
		ColumnExpr("COUNT(*)").
		Scan(ctx, &count)
	s.observe(ctx, "health_check", start, err)
	if err != nil {
		s.logger.Error("Queue service health check failed", attr.Error(err))
		return fmt.Errorf("queue service health check failed: %w", err)
	}
	s.logger.Debug("Queue service health check passed", attr.Int("total_jobs", count))
	return nil
}
