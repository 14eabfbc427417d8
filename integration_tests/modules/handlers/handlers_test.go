//go:build integration

package handlerintegrationtests

import (
	"testing"
	"time"

	attendanceevents "github.com/Black-And-White-Club/league-night/app/events/attendance"
	drawevents "github.com/Black-And-White-Club/league-night/app/events/draw"
	scoreevents "github.com/Black-And-White-Club/league-night/app/events/score"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/Black-And-White-Club/league-night/integration_tests/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitTimeout = 10 * time.Second

func TestAttendanceStatusUpdateIsStored(t *testing.T) {
	m := SetupModules(t)
	event := sharedtypes.EventKey{LeagueID: "league-att", Date: "2026-03-03"}

	testutils.Publish(t, testEnv.EventBus, attendanceevents.AttendanceStatusUpdatedV1, attendanceevents.StatusUpdatedPayloadV1{
		LeagueID:    event.LeagueID,
		EventDate:   event.Date,
		PlayerID:    "p1",
		Status:      sharedtypes.StatusPlayAndBBQ,
		RespondedAt: time.Now().UTC(),
	})

	assert.Eventually(t, func() bool {
		status, err := m.Attendance.Service.StatusOf(testEnv.Ctx, event, "p1")
		return err == nil && status == sharedtypes.StatusPlayAndBBQ
	}, waitTimeout, 50*time.Millisecond)
}

func TestDrawRunRequestPublishesCompletedDraw(t *testing.T) {
	SetupModules(t)
	gen := testutils.NewTestDataGenerator()
	event := sharedtypes.EventKey{LeagueID: gen.League(), Date: "2026-03-10"}

	players := gen.Players(6)
	testutils.SeedMembers(t, testEnv.Ctx, testEnv.DB, event.LeagueID, players)
	testutils.SeedAttendance(t, testEnv.Ctx, testEnv.DB, event, sharedtypes.StatusConfirmed, testutils.IDs(players)...)

	capture := testutils.CaptureTopics(t, captureContext(t), testEnv.EventBus, drawevents.DrawCompletedV1, drawevents.DrawFailedV1)

	testutils.Publish(t, testEnv.EventBus, drawevents.DrawRunRequestedV1, drawevents.DrawRunRequestedPayloadV1{
		LeagueID:    event.LeagueID,
		EventDate:   event.Date,
		RequestedBy: "organizer",
	})

	require.True(t, capture.WaitFor(drawevents.DrawCompletedV1, 1, waitTimeout), "expected draw.completed.v1")
	payload, err := testutils.Decode[drawevents.DrawCompletedPayloadV1](capture.Messages(drawevents.DrawCompletedV1)[0])
	require.NoError(t, err)
	assert.Equal(t, event.LeagueID, payload.LeagueID)
	assert.Len(t, payload.Pairs, 3)
	assert.Empty(t, capture.Messages(drawevents.DrawFailedV1))
}

func TestDrawRunWithoutPlayersPublishesFailure(t *testing.T) {
	SetupModules(t)
	capture := testutils.CaptureTopics(t, captureContext(t), testEnv.EventBus, drawevents.DrawFailedV1)

	testutils.Publish(t, testEnv.EventBus, drawevents.DrawRunRequestedV1, drawevents.DrawRunRequestedPayloadV1{
		LeagueID:  "empty-league",
		EventDate: "2026-03-17",
	})

	require.True(t, capture.WaitFor(drawevents.DrawFailedV1, 1, waitTimeout), "expected draw.failed.v1")
	payload, err := testutils.Decode[drawevents.DrawFailedPayloadV1](capture.Messages(drawevents.DrawFailedV1)[0])
	require.NoError(t, err)
	assert.Contains(t, payload.Reason, "at least two")
}

func TestInvalidScoreSubmissionPublishesFailure(t *testing.T) {
	SetupModules(t)
	capture := testutils.CaptureTopics(t, captureContext(t), testEnv.EventBus, scoreevents.ScoreFailedV1, scoreevents.ScoreSubmittedV1)

	testutils.Publish(t, testEnv.EventBus, scoreevents.ScoreSubmitRequestedV1, scoreevents.ScoreSubmitRequestedPayloadV1{
		LeagueID:  "league-score",
		EventDate: "2026-03-24",
		PlayerID:  "p1",
		Victories: -1,
	})

	require.True(t, capture.WaitFor(scoreevents.ScoreFailedV1, 1, waitTimeout), "expected score.failed.v1")
	payload, err := testutils.Decode[scoreevents.ScoreFailedPayloadV1](capture.Messages(scoreevents.ScoreFailedV1)[0])
	require.NoError(t, err)
	assert.Equal(t, sharedtypes.PlayerID("p1"), payload.PlayerID)
	assert.Empty(t, capture.Messages(scoreevents.ScoreSubmittedV1))
}
