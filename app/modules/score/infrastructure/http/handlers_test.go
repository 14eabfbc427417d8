package scorehttp

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authdomain "github.com/Black-And-White-Club/league-night/app/modules/auth/domain"
	authhandlers "github.com/Black-And-White-Club/league-night/app/modules/auth/infrastructure/handlers"
	scoreservice "github.com/Black-And-White-Club/league-night/app/modules/score/application"
	scoredomain "github.com/Black-And-White-Club/league-night/app/modules/score/domain"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	organizer = &authdomain.Claims{PlayerID: "org", LeagueID: "l1", Role: sharedtypes.RoleOrganizer}
	player    = &authdomain.Claims{PlayerID: "p1", LeagueID: "l1", Role: sharedtypes.RolePlayer}
)

func newTestServer(svc *FakeScoreService, claims *authdomain.Claims) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(authhandlers.WithClaims(req.Context(), claims)))
		})
	})
	NewScoreHTTPHandlers(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(r)
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

func TestSubmitScoreEndpoint(t *testing.T) {
	const body = `{"victories": 2, "defeats": 1, "applied_victims": ["v1"], "confirmed": true}`

	tests := []struct {
		name      string
		claims    *authdomain.Claims
		path      string
		err       error
		want      int
		wantCalls []string
	}{
		{name: "own score", claims: player, path: "/leagues/l1/events/2026-03-05/scores/p1", want: http.StatusOK, wantCalls: []string{"SubmitScore"}},
		{name: "organizer for a player", claims: organizer, path: "/leagues/l1/events/2026-03-05/scores/p1", want: http.StatusOK, wantCalls: []string{"SubmitScore"}},
		{name: "someone else's score", claims: player, path: "/leagues/l1/events/2026-03-05/scores/p2", want: http.StatusForbidden, wantCalls: []string{}},
		{name: "other league", claims: player, path: "/leagues/l2/events/2026-03-05/scores/p1", want: http.StatusForbidden, wantCalls: []string{}},
		{name: "bad date", claims: player, path: "/leagues/l1/events/05-03-2026/scores/p1", want: http.StatusBadRequest, wantCalls: []string{}},
		{name: "not eligible", claims: player, path: "/leagues/l1/events/2026-03-05/scores/p1", err: scoreservice.ErrPlayerNotEligible, want: http.StatusUnprocessableEntity, wantCalls: []string{"SubmitScore"}},
		{name: "negative counts", claims: player, path: "/leagues/l1/events/2026-03-05/scores/p1", err: scoredomain.ErrInvalidScoreInput, want: http.StatusBadRequest, wantCalls: []string{"SubmitScore"}},
		{name: "storage failure", claims: player, path: "/leagues/l1/events/2026-03-05/scores/p1", err: context.DeadlineExceeded, want: http.StatusInternalServerError, wantCalls: []string{"SubmitScore"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewFakeScoreService()
			var got scoreservice.SubmitScoreCommand
			svc.SubmitScoreFunc = func(ctx context.Context, cmd scoreservice.SubmitScoreCommand) (*scoreservice.SubmitScoreResult, error) {
				got = cmd
				if tt.err != nil {
					return nil, tt.err
				}
				return &scoreservice.SubmitScoreResult{Score: scoreservice.PlayerScore{PlayerID: cmd.Player, TotalPoints: 9.5}}, nil
			}

			rec := do(t, newTestServer(svc, tt.claims), http.MethodPut, tt.path, body)
			require.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantCalls, svc.Trace())
			if len(tt.wantCalls) > 0 {
				assert.EqualValues(t, "p1", got.Player)
				assert.Equal(t, 2, got.Victories)
				assert.Equal(t, []sharedtypes.PlayerID{"v1"}, got.AppliedVictims)
			}
		})
	}
}

func TestGetEventScoresEndpoint(t *testing.T) {
	svc := NewFakeScoreService()
	rec := do(t, newTestServer(svc, player), http.MethodGet, "/leagues/l1/events/2026-03-05/scores", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestManualBlowoutEndpoint(t *testing.T) {
	t.Run("organizer", func(t *testing.T) {
		svc := NewFakeScoreService()
		var got scoreservice.ManualBlowoutCommand
		svc.SubmitManualBlowoutFunc = func(ctx context.Context, cmd scoreservice.ManualBlowoutCommand) (*scoreservice.ManualBlowoutResult, error) {
			got = cmd
			return &scoreservice.ManualBlowoutResult{Records: 2}, nil
		}
		rec := do(t, newTestServer(svc, organizer), http.MethodPost, "/leagues/l1/events/2026-03-05/blowouts", `{"appliers":["a"],"victims":["v1","v2"]}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.EqualValues(t, "org", got.RequestedBy)
		assert.Len(t, got.Victims, 2)
	})

	t.Run("players are refused", func(t *testing.T) {
		svc := NewFakeScoreService()
		rec := do(t, newTestServer(svc, player), http.MethodPost, "/leagues/l1/events/2026-03-05/blowouts", `{"appliers":["a"],"victims":["v"]}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, svc.Trace())
	})
}

func TestResetLeagueEndpoint(t *testing.T) {
	tests := []struct {
		name   string
		claims *authdomain.Claims
		body   string
		want   int
	}{
		{name: "confirmed", claims: organizer, body: `{"confirm": true}`, want: http.StatusOK},
		{name: "missing confirmation", claims: organizer, want: http.StatusBadRequest},
		{name: "player", claims: player, body: `{"confirm": true}`, want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewFakeScoreService()
			svc.ResetLeagueScoresFunc = func(ctx context.Context, cmd scoreservice.ResetLeagueCommand) (*scoreservice.ResetLeagueResult, error) {
				if !cmd.Confirm {
					return nil, scoreservice.ErrConfirmationRequired
				}
				return &scoreservice.ResetLeagueResult{LeagueID: cmd.LeagueID}, nil
			}
			rec := do(t, newTestServer(svc, tt.claims), http.MethodPost, "/leagues/l1/scores/reset", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestPointsChartEndpoint(t *testing.T) {
	svc := NewFakeScoreService()
	var gotLeague sharedtypes.LeagueID
	var gotPlayer sharedtypes.PlayerID
	svc.RenderPointsChartFunc = func(ctx context.Context, league sharedtypes.LeagueID, p sharedtypes.PlayerID) ([]byte, error) {
		gotLeague, gotPlayer = league, p
		return []byte("\x89PNG"), nil
	}

	rec := do(t, newTestServer(svc, player), http.MethodGet, "/leagues/l1/players/p2/points.png", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.EqualValues(t, "l1", gotLeague)
	assert.EqualValues(t, "p2", gotPlayer)
}
