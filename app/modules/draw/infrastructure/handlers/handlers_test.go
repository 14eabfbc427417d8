package drawhandlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	drawevents "github.com/Black-And-White-Club/league-night/app/events/draw"
	drawservice "github.com/Black-And-White-Club/league-night/app/modules/draw/application"
	drawdomain "github.com/Black-And-White-Club/league-night/app/modules/draw/domain"
	drawdb "github.com/Black-And-White-Club/league-night/app/modules/draw/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestHandlers(svc *FakeDrawService) Handlers {
	return NewDrawHandlers(svc, slog.Default(), noop.NewTracerProvider().Tracer("test"))
}

func ptr(p sharedtypes.PlayerID) *sharedtypes.PlayerID { return &p }

func TestHandleDrawRunRequested(t *testing.T) {
	payload := &drawevents.DrawRunRequestedPayloadV1{LeagueID: "l1", EventDate: "2026-03-05", RequestedBy: "org"}

	tests := []struct {
		name      string
		result    *drawservice.DrawResult
		err       error
		wantTopic string
		wantErr   bool
	}{
		{
			name: "completed",
			result: &drawservice.DrawResult{
				Draw: drawservice.DrawSummary{ID: "d1", LeagueID: "l1", EventDate: "2026-03-05", Seed: 9},
				Pairs: []drawdomain.Pair{
					{Seq: 1, Tier: drawdomain.TierTop, Player1: "p1", Player2: ptr("p2")},
					{Seq: 2, Tier: drawdomain.TierBottom, Player1: "p3"},
				},
				Shortfalls: []drawdomain.PartialScheduleWarning{{Tier: drawdomain.TierTop, PairSeq: 1, Wanted: 4}},
			},
			wantTopic: drawevents.DrawCompletedV1,
		},
		{name: "too few players", err: fmt.Errorf("RunDraw: %w", drawdomain.ErrInsufficientPlayers), wantTopic: drawevents.DrawFailedV1},
		{name: "strict schedule", err: drawdomain.ErrPartialSchedule, wantTopic: drawevents.DrawFailedV1},
		{name: "invalid request", err: drawservice.ErrInvalidRequest, wantTopic: drawevents.DrawFailedV1},
		{name: "infrastructure error is retried", err: errors.New("db down"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewFakeDrawService()
			var got drawservice.RunDrawCommand
			svc.RunDrawFunc = func(ctx context.Context, cmd drawservice.RunDrawCommand) (*drawservice.DrawResult, error) {
				got = cmd
				return tt.result, tt.err
			}

			results, err := newTestHandlers(svc).HandleDrawRunRequested(context.Background(), payload)
			assert.Equal(t, []string{"RunDraw"}, svc.Trace())
			assert.Equal(t, sharedtypes.EventKey{LeagueID: "l1", Date: "2026-03-05"}, got.Event)
			assert.EqualValues(t, "org", got.CreatedBy)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, results)
				return
			}
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, tt.wantTopic, results[0].Topic)
		})
	}
}

func TestHandleDrawRunRequestedCompletedPayload(t *testing.T) {
	svc := NewFakeDrawService()
	svc.RunDrawFunc = func(ctx context.Context, cmd drawservice.RunDrawCommand) (*drawservice.DrawResult, error) {
		return &drawservice.DrawResult{
			Draw:    drawservice.DrawSummary{ID: "d1", LeagueID: "l1", EventDate: "2026-03-05", Seed: 9},
			Pairs:   []drawdomain.Pair{{Seq: 1, Tier: drawdomain.TierTop, Player1: "p1", Player2: ptr("p2")}, {Seq: 2, Tier: drawdomain.TierTop, Player1: "p3", Player2: ptr("p4")}},
			Matches: []drawdomain.Match{{Seq: 1, Tier: drawdomain.TierTop, PairA: 1, PairB: 2}},
			ForcedRepeats: []drawdomain.ForcedRepeatPairing{
				{Tier: drawdomain.TierTop, Player1: "p1", Player2: "p2"},
			},
		}, nil
	}

	results, err := newTestHandlers(svc).HandleDrawRunRequested(context.Background(), &drawevents.DrawRunRequestedPayloadV1{LeagueID: "l1", EventDate: "2026-03-05"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	payload, ok := results[0].Payload.(*drawevents.DrawCompletedPayloadV1)
	require.True(t, ok)
	assert.EqualValues(t, "d1", payload.DrawID)
	assert.EqualValues(t, 9, payload.Seed)
	assert.Len(t, payload.Pairs, 2)
	assert.Equal(t, []drawevents.MatchV1{{Seq: 1, Tier: "top", PairA: 1, PairB: 2}}, payload.Matches)
	assert.Equal(t, []drawevents.ForcedRepeatV1{{Tier: "top", Player1: "p1", Player2: "p2"}}, payload.ForcedRepeats)
	assert.Empty(t, payload.Shortfalls)
}

func TestHandleDrawDeleteRequested(t *testing.T) {
	id := uuid.New()

	t.Run("deleted", func(t *testing.T) {
		svc := NewFakeDrawService()
		svc.DeleteDrawFunc = func(ctx context.Context, drawID uuid.UUID) (*drawservice.DrawSummary, error) {
			assert.Equal(t, id, drawID)
			return &drawservice.DrawSummary{ID: sharedtypes.DrawID(id.String()), LeagueID: "l1", EventDate: "2026-03-05"}, nil
		}
		results, err := newTestHandlers(svc).HandleDrawDeleteRequested(context.Background(), &drawevents.DrawDeleteRequestedPayloadV1{DrawID: sharedtypes.DrawID(id.String())})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, drawevents.DrawDeletedV1, results[0].Topic)
		assert.Equal(t, &drawevents.DrawDeletedPayloadV1{DrawID: sharedtypes.DrawID(id.String()), LeagueID: "l1", EventDate: "2026-03-05"}, results[0].Payload)
	})

	t.Run("malformed id never reaches the service", func(t *testing.T) {
		svc := NewFakeDrawService()
		results, err := newTestHandlers(svc).HandleDrawDeleteRequested(context.Background(), &drawevents.DrawDeleteRequestedPayloadV1{DrawID: "nope"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, drawevents.DrawFailedV1, results[0].Topic)
		assert.Empty(t, svc.Trace())
	})

	t.Run("unknown draw", func(t *testing.T) {
		svc := NewFakeDrawService()
		svc.DeleteDrawFunc = func(ctx context.Context, drawID uuid.UUID) (*drawservice.DrawSummary, error) {
			return nil, drawdb.ErrNotFound
		}
		results, err := newTestHandlers(svc).HandleDrawDeleteRequested(context.Background(), &drawevents.DrawDeleteRequestedPayloadV1{DrawID: sharedtypes.DrawID(id.String())})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, drawevents.DrawFailedV1, results[0].Topic)
	})
}

func TestHandleDrawScheduleRequested(t *testing.T) {
	closes := time.Date(2026, 3, 5, 17, 0, 0, 0, time.UTC)
	payload := &drawevents.DrawScheduleRequestedPayloadV1{LeagueID: "l1", EventDate: "2026-03-05", ClosesAt: closes}

	t.Run("scheduled", func(t *testing.T) {
		svc := NewFakeDrawService()
		svc.ScheduleDrawFunc = func(ctx context.Context, cmd drawservice.ScheduleDrawCommand) (*drawservice.ScheduledRun, error) {
			assert.Equal(t, closes, cmd.ClosesAt)
			return &drawservice.ScheduledRun{JobID: 7, RunAt: closes, Duplicate: true}, nil
		}
		results, err := newTestHandlers(svc).HandleDrawScheduleRequested(context.Background(), payload)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, drawevents.DrawScheduledV1, results[0].Topic)
		assert.Equal(t, &drawevents.DrawScheduledPayloadV1{LeagueID: "l1", EventDate: "2026-03-05", RunAt: closes, JobID: 7, Duplicate: true}, results[0].Payload)
	})

	t.Run("scheduler not configured", func(t *testing.T) {
		svc := NewFakeDrawService()
		svc.ScheduleDrawFunc = func(ctx context.Context, cmd drawservice.ScheduleDrawCommand) (*drawservice.ScheduledRun, error) {
			return nil, drawservice.ErrSchedulingUnavailable
		}
		results, err := newTestHandlers(svc).HandleDrawScheduleRequested(context.Background(), payload)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, drawevents.DrawFailedV1, results[0].Topic)
	})

	t.Run("queue error is retried", func(t *testing.T) {
		svc := NewFakeDrawService()
		svc.ScheduleDrawFunc = func(ctx context.Context, cmd drawservice.ScheduleDrawCommand) (*drawservice.ScheduledRun, error) {
			return nil, errors.New("river down")
		}
		_, err := newTestHandlers(svc).HandleDrawScheduleRequested(context.Background(), payload)
		assert.Error(t, err)
	})
}
