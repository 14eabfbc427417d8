package drawhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	authhandlers "github.com/Black-And-White-Club/league-night/app/modules/auth/infrastructure/handlers"
	drawservice "github.com/Black-And-White-Club/league-night/app/modules/draw/application"
	drawdomain "github.com/Black-And-White-Club/league-night/app/modules/draw/domain"
	drawdb "github.com/Black-And-White-Club/league-night/app/modules/draw/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-night/app/shared/observability/attr"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DrawHTTPHandlers serves the draw endpoints of the API.
type DrawHTTPHandlers struct {
	service drawservice.Service
	logger  *slog.Logger
}

func NewDrawHTTPHandlers(service drawservice.Service, logger *slog.Logger) *DrawHTTPHandlers {
	return &DrawHTTPHandlers{service: service, logger: logger}
}

// RegisterRoutes mounts the draw routes on an authenticated router.
func (h *DrawHTTPHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/leagues/{league}/events/{date}", func(r chi.Router) {
		r.Use(authhandlers.RequireLeague)
		r.Get("/draw", h.GetDraw)
		r.Get("/draw.xlsx", h.ExportDraw)
		r.With(authhandlers.RequireOrganizer).Post("/draw", h.RunDraw)
		r.With(authhandlers.RequireOrganizer).Post("/draw/schedule", h.ScheduleDraw)
	})
	r.With(authhandlers.RequireOrganizer).Delete("/draws/{drawID}", h.DeleteDraw)
}

type runDrawRequest struct {
	Seed *int64 `json:"seed,omitempty"`
}

type scheduleDrawRequest struct {
	ClosesAt time.Time `json:"closes_at"`
}

func eventFromRequest(r *http.Request) (sharedtypes.EventKey, error) {
	date, err := sharedtypes.ParseEventDate(chi.URLParam(r, "date"))
	if err != nil {
		return sharedtypes.EventKey{}, fmt.Errorf("%w: %v", drawservice.ErrInvalidRequest, err)
	}
	return sharedtypes.EventKey{
		LeagueID: sharedtypes.LeagueID(chi.URLParam(r, "league")),
		Date:     date,
	}, nil
}

// RunDraw runs (or re-runs) the draw of an event.
func (h *DrawHTTPHandlers) RunDraw(w http.ResponseWriter, r *http.Request) {
	event, err := eventFromRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var body runDrawRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, fmt.Sprintf("Failed to decode request body: %v", err), http.StatusBadRequest)
			return
		}
	}

	claims, _ := authhandlers.ClaimsFromContext(r.Context())
	result, err := h.service.RunDraw(r.Context(), drawservice.RunDrawCommand{
		Event:     event,
		CreatedBy: claims.PlayerID,
		Seed:      body.Seed,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *DrawHTTPHandlers) GetDraw(w http.ResponseWriter, r *http.Request) {
	event, err := eventFromRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.service.GetDraw(r.Context(), event)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ExportDraw returns the draw as a spreadsheet.
func (h *DrawHTTPHandlers) ExportDraw(w http.ResponseWriter, r *http.Request) {
	event, err := eventFromRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	data, err := h.service.ExportDraw(r.Context(), event)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="draw-%s-%s.xlsx"`, event.LeagueID, event.Date))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *DrawHTTPHandlers) ScheduleDraw(w http.ResponseWriter, r *http.Request) {
	event, err := eventFromRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var body scheduleDrawRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, fmt.Sprintf("Failed to decode request body: %v", err), http.StatusBadRequest)
		return
	}

	claims, _ := authhandlers.ClaimsFromContext(r.Context())
	run, err := h.service.ScheduleDraw(r.Context(), drawservice.ScheduleDrawCommand{
		Event:       event,
		ClosesAt:    body.ClosesAt,
		RequestedBy: claims.PlayerID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, run)
}

// DeleteDraw removes a draw of the caller's league.
func (h *DrawHTTPHandlers) DeleteDraw(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "drawID"))
	if err != nil {
		http.Error(w, "Invalid draw ID", http.StatusBadRequest)
		return
	}

	existing, err := h.service.GetDrawByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	claims, _ := authhandlers.ClaimsFromContext(r.Context())
	if !claims.InLeague(existing.LeagueID) {
		// Draws of other leagues are reported as missing.
		http.Error(w, "Draw not found", http.StatusNotFound)
		return
	}

	deleted, err := h.service.DeleteDraw(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deleted)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, drawservice.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, drawdomain.ErrInsufficientPlayers), errors.Is(err, drawdomain.ErrPartialSchedule):
		return http.StatusUnprocessableEntity
	case errors.Is(err, drawdb.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, drawservice.ErrSchedulingUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *DrawHTTPHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Draw request failed",
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
