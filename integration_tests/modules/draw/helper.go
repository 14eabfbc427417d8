//go:build integration

package drawintegrationtests

import (
	"testing"

	attendanceservice "github.com/Black-And-White-Club/league-night/app/modules/attendance/application"
	attendancedb "github.com/Black-And-White-Club/league-night/app/modules/attendance/infrastructure/repositories"
	drawservice "github.com/Black-And-White-Club/league-night/app/modules/draw/application"
	drawdb "github.com/Black-And-White-Club/league-night/app/modules/draw/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-night/app/shared/metrics"
	"github.com/Black-And-White-Club/league-night/integration_tests/testutils"
	"go.opentelemetry.io/otel/trace/noop"
)

type TestDeps struct {
	Env     *testutils.TestEnvironment
	Repo    drawdb.Repository
	Service *drawservice.DrawService
	Gen     *testutils.TestDataGenerator
}

func SetupTestDrawService(t *testing.T) TestDeps {
	t.Helper()
	if err := testEnv.Reset(); err != nil {
		t.Fatalf("failed to reset environment: %v", err)
	}

	repo := drawdb.NewRepository(testEnv.DB)
	resolver := attendanceservice.NewResolver(attendancedb.NewRepository(testEnv.DB))
	service := drawservice.NewDrawService(
		repo,
		resolver,
		testutils.DiscardLogger(),
		metrics.NoopDrawMetrics{},
		noop.NewTracerProvider().Tracer("test"),
		testEnv.DB,
		drawservice.Config{MatchesPerPair: 4},
	)

	gen := testutils.NewTestDataGenerator()
	t.Logf("data generator seed %d", gen.Seed())

	return TestDeps{Env: testEnv, Repo: repo, Service: service, Gen: gen}
}
