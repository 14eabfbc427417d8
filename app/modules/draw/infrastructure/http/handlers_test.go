package drawhttp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authdomain "github.com/Black-And-White-Club/league-night/app/modules/auth/domain"
	authhandlers "github.com/Black-And-White-Club/league-night/app/modules/auth/infrastructure/handlers"
	drawservice "github.com/Black-And-White-Club/league-night/app/modules/draw/application"
	drawdomain "github.com/Black-And-White-Club/league-night/app/modules/draw/domain"
	drawdb "github.com/Black-And-White-Club/league-night/app/modules/draw/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	organizer = &authdomain.Claims{PlayerID: "org", LeagueID: "l1", Role: sharedtypes.RoleOrganizer}
	player    = &authdomain.Claims{PlayerID: "p1", LeagueID: "l1", Role: sharedtypes.RolePlayer}
)

func newTestServer(svc *FakeDrawService, claims *authdomain.Claims) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(authhandlers.WithClaims(req.Context(), claims)))
		})
	})
	NewDrawHTTPHandlers(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRunDrawEndpoint(t *testing.T) {
	svc := NewFakeDrawService()
	var got drawservice.RunDrawCommand
	svc.RunDrawFunc = func(ctx context.Context, cmd drawservice.RunDrawCommand) (*drawservice.DrawResult, error) {
		got = cmd
		return &drawservice.DrawResult{Draw: drawservice.DrawSummary{ID: "d1", Seed: *cmd.Seed}}, nil
	}

	rec := do(t, newTestServer(svc, organizer), http.MethodPost, "/leagues/l1/events/2026-03-05/draw", `{"seed": 11}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, sharedtypes.EventKey{LeagueID: "l1", Date: "2026-03-05"}, got.Event)
	assert.EqualValues(t, "org", got.CreatedBy)

	var body drawservice.DrawResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.EqualValues(t, 11, body.Draw.Seed)
}

func TestRunDrawEndpointErrors(t *testing.T) {
	tests := []struct {
		name   string
		claims *authdomain.Claims
		path   string
		err    error
		want   int
	}{
		{name: "players cannot run draws", claims: player, path: "/leagues/l1/events/2026-03-05/draw", want: http.StatusForbidden},
		{name: "other league", claims: organizer, path: "/leagues/l2/events/2026-03-05/draw", want: http.StatusForbidden},
		{name: "bad date", claims: organizer, path: "/leagues/l1/events/march/draw", want: http.StatusBadRequest},
		{name: "too few players", claims: organizer, path: "/leagues/l1/events/2026-03-05/draw", err: drawdomain.ErrInsufficientPlayers, want: http.StatusUnprocessableEntity},
		{name: "strict schedule", claims: organizer, path: "/leagues/l1/events/2026-03-05/draw", err: drawdomain.ErrPartialSchedule, want: http.StatusUnprocessableEntity},
		{name: "database down", claims: organizer, path: "/leagues/l1/events/2026-03-05/draw", err: assert.AnError, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewFakeDrawService()
			svc.RunDrawFunc = func(ctx context.Context, cmd drawservice.RunDrawCommand) (*drawservice.DrawResult, error) {
				return nil, tt.err
			}
			rec := do(t, newTestServer(svc, tt.claims), http.MethodPost, tt.path, "")
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestGetDrawEndpoint(t *testing.T) {
	svc := NewFakeDrawService()
	svc.GetDrawFunc = func(ctx context.Context, event sharedtypes.EventKey) (*drawservice.DrawResult, error) {
		return nil, drawdb.ErrNotFound
	}
	rec := do(t, newTestServer(svc, player), http.MethodGet, "/leagues/l1/events/2026-03-05/draw", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, []string{"GetDraw"}, svc.Trace())
}

func TestExportDrawEndpoint(t *testing.T) {
	svc := NewFakeDrawService()
	svc.ExportDrawFunc = func(ctx context.Context, event sharedtypes.EventKey) ([]byte, error) {
		return []byte("xlsx"), nil
	}
	rec := do(t, newTestServer(svc, player), http.MethodGet, "/leagues/l1/events/2026-03-05/draw.xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "draw-l1-2026-03-05.xlsx")
	assert.Equal(t, "xlsx", rec.Body.String())
}

func TestScheduleDrawEndpoint(t *testing.T) {
	svc := NewFakeDrawService()
	svc.ScheduleDrawFunc = func(ctx context.Context, cmd drawservice.ScheduleDrawCommand) (*drawservice.ScheduledRun, error) {
		return &drawservice.ScheduledRun{JobID: 3, RunAt: cmd.ClosesAt}, nil
	}
	rec := do(t, newTestServer(svc, organizer), http.MethodPost, "/leagues/l1/events/2026-03-05/draw/schedule", `{"closes_at":"2026-03-05T17:00:00Z"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	svc.ScheduleDrawFunc = func(ctx context.Context, cmd drawservice.ScheduleDrawCommand) (*drawservice.ScheduledRun, error) {
		return nil, drawservice.ErrSchedulingUnavailable
	}
	rec = do(t, newTestServer(svc, organizer), http.MethodPost, "/leagues/l1/events/2026-03-05/draw/schedule", `{"closes_at":"2026-03-05T17:00:00Z"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDeleteDrawEndpoint(t *testing.T) {
	id := uuid.New()

	t.Run("own league", func(t *testing.T) {
		svc := NewFakeDrawService()
		svc.GetDrawByIDFunc = func(ctx context.Context, drawID uuid.UUID) (*drawservice.DrawSummary, error) {
			return &drawservice.DrawSummary{ID: sharedtypes.DrawID(drawID.String()), LeagueID: "l1"}, nil
		}
		rec := do(t, newTestServer(svc, organizer), http.MethodDelete, "/draws/"+id.String(), "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"GetDrawByID", "DeleteDraw"}, svc.Trace())
	})

	t.Run("other league is hidden", func(t *testing.T) {
		svc := NewFakeDrawService()
		svc.GetDrawByIDFunc = func(ctx context.Context, drawID uuid.UUID) (*drawservice.DrawSummary, error) {
			return &drawservice.DrawSummary{LeagueID: "l2"}, nil
		}
		rec := do(t, newTestServer(svc, organizer), http.MethodDelete, "/draws/"+id.String(), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, []string{"GetDrawByID"}, svc.Trace())
	})

	t.Run("malformed id", func(t *testing.T) {
		svc := NewFakeDrawService()
		rec := do(t, newTestServer(svc, organizer), http.MethodDelete, "/draws/nope", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, svc.Trace())
	})
}
