//go:build integration

package scoreintegrationtests

import (
	"testing"

	attendanceservice "github.com/Black-And-White-Club/league-night/app/modules/attendance/application"
	attendancedb "github.com/Black-And-White-Club/league-night/app/modules/attendance/infrastructure/repositories"
	drawservice "github.com/Black-And-White-Club/league-night/app/modules/draw/application"
	drawdb "github.com/Black-And-White-Club/league-night/app/modules/draw/infrastructure/repositories"
	scoreservice "github.com/Black-And-White-Club/league-night/app/modules/score/application"
	scoredb "github.com/Black-And-White-Club/league-night/app/modules/score/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-night/app/shared/metrics"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/Black-And-White-Club/league-night/integration_tests/testutils"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type TestDeps struct {
	Env   *testutils.TestEnvironment
	Draws *drawservice.DrawService
	Score *scoreservice.ScoreService
	Gen   *testutils.TestDataGenerator
}

func SetupTestScoreService(t *testing.T) TestDeps {
	t.Helper()
	if err := testEnv.Reset(); err != nil {
		t.Fatalf("failed to reset environment: %v", err)
	}

	logger := testutils.DiscardLogger()
	tracer := noop.NewTracerProvider().Tracer("test")

	resolver := attendanceservice.NewResolver(attendancedb.NewRepository(testEnv.DB))
	drawRepo := drawdb.NewRepository(testEnv.DB)
	draws := drawservice.NewDrawService(drawRepo, resolver, logger, metrics.NoopDrawMetrics{}, tracer, testEnv.DB, drawservice.Config{MatchesPerPair: 4})
	score := scoreservice.NewScoreService(
		scoredb.NewRepository(testEnv.DB),
		resolver,
		drawservice.NewPairDirectory(drawRepo),
		logger,
		metrics.NoopScoreMetrics{},
		tracer,
		testEnv.DB,
	)

	gen := testutils.NewTestDataGenerator()
	t.Logf("data generator seed %d", gen.Seed())
	return TestDeps{Env: testEnv, Draws: draws, Score: score, Gen: gen}
}

// drawnEvent seeds four confirmed players plus one bbq-only guest, runs the
// draw and returns the two full pairs.
func drawnEvent(t *testing.T, deps TestDeps, date sharedtypes.EventDate, league sharedtypes.LeagueID) (sharedtypes.EventKey, []sharedtypes.PlayerID, []sharedtypes.PlayerID, sharedtypes.PlayerID) {
	t.Helper()
	ctx := deps.Env.Ctx
	event := sharedtypes.EventKey{LeagueID: league, Date: date}

	players := deps.Gen.Players(5)
	testutils.SeedMembers(t, ctx, deps.Env.DB, league, players)
	ids := testutils.IDs(players)
	testutils.SeedAttendance(t, ctx, deps.Env.DB, event, sharedtypes.StatusConfirmed, ids[:4]...)
	testutils.SeedAttendance(t, ctx, deps.Env.DB, event, sharedtypes.StatusBBQOnly, ids[4])

	result, err := deps.Draws.RunDraw(ctx, drawservice.RunDrawCommand{Event: event})
	require.NoError(t, err)
	require.Len(t, result.Pairs, 2)
	a, b := result.Pairs[0].Members(), result.Pairs[1].Members()
	require.Len(t, a, 2)
	require.Len(t, b, 2)
	return event, a, b, ids[4]
}
