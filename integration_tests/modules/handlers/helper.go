//go:build integration

package handlerintegrationtests

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Black-And-White-Club/league-night/app/modules/attendance"
	"github.com/Black-And-White-Club/league-night/app/modules/draw"
	"github.com/Black-And-White-Club/league-night/app/modules/score"
	"github.com/Black-And-White-Club/league-night/app/shared/metrics"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// Modules is the event-driven half of the application on a live router.
type Modules struct {
	Attendance *attendance.Module
	Draw       *draw.Module
	Score      *score.Module
	Router     *message.Router
}

var (
	modulesOnce sync.Once
	modules     *Modules
	modulesErr  error
	routerStop  context.CancelFunc
	routerDone  chan struct{}
)

// SetupModules wires attendance, draw and score onto one router the first
// time it is called and resets the database and streams every time.
func SetupModules(t *testing.T) *Modules {
	t.Helper()
	modulesOnce.Do(func() { modules, modulesErr = startModules() })
	if modulesErr != nil {
		t.Fatalf("failed to start modules: %v", modulesErr)
	}
	if err := testEnv.Reset(); err != nil {
		t.Fatalf("failed to reset environment: %v", err)
	}
	return modules
}

func startModules() (*Modules, error) {
	ctx := testEnv.Ctx
	obs := testEnv.Observability()

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 5 * time.Second}, watermill.NewSlogLogger(obs.Logger))
	if err != nil {
		return nil, err
	}
	router.AddMiddleware(middleware.CorrelationID, middleware.Recoverer)

	att, err := attendance.NewAttendanceModule(ctx, obs, metrics.NoopOperationMetrics{}, testEnv.EventBus, router, testEnv.DB)
	if err != nil {
		return nil, err
	}
	resolver := att.Service.Resolver()
	drw, err := draw.NewDrawModule(ctx, testEnv.Config, obs, resolver, testEnv.EventBus, router, testEnv.DB)
	if err != nil {
		return nil, err
	}
	scr, err := score.NewScoreModule(ctx, obs, resolver, drw.Pairs, testEnv.EventBus, router, testEnv.DB)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	routerStop = cancel
	routerDone = make(chan struct{})
	go func() {
		defer close(routerDone)
		_ = router.Run(runCtx)
	}()

	select {
	case <-router.Running():
	case <-time.After(10 * time.Second):
		cancel()
		return nil, context.DeadlineExceeded
	}

	return &Modules{Attendance: att, Draw: drw, Score: scr, Router: router}, nil
}

func stopModules() {
	if routerStop == nil {
		return
	}
	routerStop()
	select {
	case <-routerDone:
	case <-time.After(5 * time.Second):
	}
	if modules != nil {
		modules.Score.Close()
		modules.Draw.Close()
		modules.Attendance.Close()
	}
}

// captureContext is cancelled when the test ends, closing its subscriptions.
func captureContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(testEnv.Ctx)
	t.Cleanup(cancel)
	return ctx
}
