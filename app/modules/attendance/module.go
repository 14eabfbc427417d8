package attendance

import (
	"context"
	"fmt"
	"sync"

	"github.com/Black-And-White-Club/league-night/app/eventbus"
	attendanceservice "github.com/Black-And-White-Club/league-night/app/modules/attendance/application"
	attendancehandlers "github.com/Black-And-White-Club/league-night/app/modules/attendance/infrastructure/handlers"
	attendancedb "github.com/Black-And-White-Club/league-night/app/modules/attendance/infrastructure/repositories"
	attendancerouter "github.com/Black-And-White-Club/league-night/app/modules/attendance/infrastructure/router"
	"github.com/Black-And-White-Club/league-night/app/shared/metrics"
	"github.com/Black-And-White-Club/league-night/app/shared/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// Module represents the attendance module.
type Module struct {
	Service       *attendanceservice.AttendanceService
	router        *attendancerouter.AttendanceRouter
	cancelFunc    context.CancelFunc
	observability observability.Observability
}

// NewAttendanceModule creates and initializes a new attendance module.
func NewAttendanceModule(
	ctx context.Context,
	obs observability.Observability,
	opMetrics metrics.OperationMetrics,
	eventBus eventbus.EventBus,
	router *message.Router,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "attendance.NewAttendanceModule initializing")

	repo := attendancedb.NewRepository(db)
	service := attendanceservice.NewAttendanceService(repo, logger, opMetrics, obs.Tracer, db)
	handlers := attendancehandlers.NewAttendanceHandlers(service, logger, obs.Tracer)

	attendanceRouter := attendancerouter.NewAttendanceRouter(logger, router, eventBus, eventBus, obs.Tracer)
	if err := attendanceRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure attendance router: %w", err)
	}

	return &Module{
		Service:       service,
		router:        attendanceRouter,
		observability: obs,
	}, nil
}

// Run blocks until ctx is cancelled or Close is called.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting attendance module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Attendance module goroutine stopped")
}

// Close shuts down the attendance module. The shared router is closed by the app.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.observability.Logger.Info("Attendance module stopped")
	return nil
}
