package scorehttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	authhandlers "github.com/Black-And-White-Club/league-night/app/modules/auth/infrastructure/handlers"
	scoreservice "github.com/Black-And-White-Club/league-night/app/modules/score/application"
	scoredomain "github.com/Black-And-White-Club/league-night/app/modules/score/domain"
	"github.com/Black-And-White-Club/league-night/app/shared/observability/attr"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/go-chi/chi/v5"
)

// ScoreHTTPHandlers serves the scoring endpoints of the API.
type ScoreHTTPHandlers struct {
	service scoreservice.Service
	logger  *slog.Logger
}

func NewScoreHTTPHandlers(service scoreservice.Service, logger *slog.Logger) *ScoreHTTPHandlers {
	return &ScoreHTTPHandlers{service: service, logger: logger}
}

// RegisterRoutes mounts the score routes on an authenticated router. The
// event prefix is shared with the draw routes, so they are grouped rather
// than mounted.
func (h *ScoreHTTPHandlers) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(authhandlers.RequireLeague)
		r.Get("/leagues/{league}/events/{date}/scores", h.GetEventScores)
		r.Put("/leagues/{league}/events/{date}/scores/{player}", h.SubmitScore)
		r.Get("/leagues/{league}/players/{player}/points.png", h.PointsChart)

		r.Group(func(r chi.Router) {
			r.Use(authhandlers.RequireOrganizer)
			r.Post("/leagues/{league}/events/{date}/blowouts", h.SubmitManualBlowout)
			r.Post("/leagues/{league}/scores/reset", h.ResetLeague)
		})
	})
}

type submitScoreRequest struct {
	Victories       int                    `json:"victories"`
	Defeats         int                    `json:"defeats"`
	AppliedVictims  []sharedtypes.PlayerID `json:"applied_victims"`
	BBQParticipated bool                   `json:"bbq_participated"`
	Confirmed       bool                   `json:"confirmed"`
}

type manualBlowoutRequest struct {
	Appliers []sharedtypes.PlayerID `json:"appliers"`
	Victims  []sharedtypes.PlayerID `json:"victims"`
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}

func eventFromRequest(r *http.Request) (sharedtypes.EventKey, error) {
	date, err := sharedtypes.ParseEventDate(chi.URLParam(r, "date"))
	if err != nil {
		return sharedtypes.EventKey{}, fmt.Errorf("%w: %v", scoredomain.ErrInvalidScoreInput, err)
	}
	return sharedtypes.EventKey{
		LeagueID: sharedtypes.LeagueID(chi.URLParam(r, "league")),
		Date:     date,
	}, nil
}

// SubmitScore stores the result of one player. Players may only submit
// their own; organizers may submit for anyone in their league.
func (h *ScoreHTTPHandlers) SubmitScore(w http.ResponseWriter, r *http.Request) {
	event, err := eventFromRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	player := sharedtypes.PlayerID(chi.URLParam(r, "player"))
	claims, _ := authhandlers.ClaimsFromContext(r.Context())
	if !claims.CanActFor(event.LeagueID, player) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var body submitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, fmt.Sprintf("Failed to decode request body: %v", err), http.StatusBadRequest)
		return
	}

	result, err := h.service.SubmitScore(r.Context(), scoreservice.SubmitScoreCommand{
		Event:           event,
		Player:          player,
		Victories:       body.Victories,
		Defeats:         body.Defeats,
		AppliedVictims:  body.AppliedVictims,
		BBQParticipated: body.BBQParticipated,
		Confirmed:       body.Confirmed,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ScoreHTTPHandlers) GetEventScores(w http.ResponseWriter, r *http.Request) {
	event, err := eventFromRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	scores, err := h.service.GetEventScores(r.Context(), event)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if scores == nil {
		scores = []scoreservice.PlayerScore{}
	}
	writeJSON(w, http.StatusOK, scores)
}

func (h *ScoreHTTPHandlers) SubmitManualBlowout(w http.ResponseWriter, r *http.Request) {
	event, err := eventFromRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var body manualBlowoutRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, fmt.Sprintf("Failed to decode request body: %v", err), http.StatusBadRequest)
		return
	}

	claims, _ := authhandlers.ClaimsFromContext(r.Context())
	result, err := h.service.SubmitManualBlowout(r.Context(), scoreservice.ManualBlowoutCommand{
		Event:       event,
		Appliers:    body.Appliers,
		Victims:     body.Victims,
		RequestedBy: claims.PlayerID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// ResetLeague wipes every score of the league. The body must carry
// {"confirm": true}.
func (h *ScoreHTTPHandlers) ResetLeague(w http.ResponseWriter, r *http.Request) {
	var body resetRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, fmt.Sprintf("Failed to decode request body: %v", err), http.StatusBadRequest)
			return
		}
	}

	claims, _ := authhandlers.ClaimsFromContext(r.Context())
	result, err := h.service.ResetLeagueScores(r.Context(), scoreservice.ResetLeagueCommand{
		LeagueID:    sharedtypes.LeagueID(chi.URLParam(r, "league")),
		Confirm:     body.Confirm,
		RequestedBy: claims.PlayerID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ScoreHTTPHandlers) PointsChart(w http.ResponseWriter, r *http.Request) {
	league := sharedtypes.LeagueID(chi.URLParam(r, "league"))
	player := sharedtypes.PlayerID(chi.URLParam(r, "player"))
	png, err := h.service.RenderPointsChart(r.Context(), league, player)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, scoredomain.ErrInvalidScoreInput), errors.Is(err, scoreservice.ErrConfirmationRequired):
		return http.StatusBadRequest
	case errors.Is(err, scoreservice.ErrPlayerNotEligible):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *ScoreHTTPHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Score request failed",
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
		http.Error(w, http.StatusText(status), status)
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
