// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/oculo/internal/adapters/repository"
	serviceapp "github.com/okian/oculo/internal/app"
)

// defaultRecentLimit applies when GET /screenings has no limit parameter;
// defaultMaxRecentLimit caps it unless WithMaxRecentLimit overrides.
const (
	defaultRecentLimit    = 20
	defaultMaxRecentLimit = 100
)

// ScreeningsHandler handles screening lifecycle requests.
type ScreeningsHandler struct {
	deps      Dependencies
	maxRecent int
}

// NewScreeningsHandler creates a new screenings handler.
func NewScreeningsHandler(deps Dependencies) *ScreeningsHandler {
	return &ScreeningsHandler{deps: deps, maxRecent: defaultMaxRecentLimit}
}

type startScreeningRequest struct {
	Symptoms    symptomsRequest `json:"symptoms"`
	SkipPursuit bool            `json:"skip_pursuit"`
}

type startScreeningResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// HandleScreenings handles POST /screenings and GET /screenings?limit=N.
func (h *ScreeningsHandler) HandleScreenings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleStart(w, r)
	case http.MethodGet:
		h.handleRecent(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *ScreeningsHandler) handleStart(w http.ResponseWriter, r *http.Request) {
	const op = "api.start_screening"

	var req startScreeningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	id, err := h.deps.StartScreening(r.Context(), req.Symptoms.toModel(), req.SkipPursuit)
	if err != nil {
		if errors.Is(err, serviceapp.ErrQueueFull) {
			writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, startScreeningResponse{ID: id, Status: "pending"})
}

func (h *ScreeningsHandler) handleRecent(w http.ResponseWriter, r *http.Request) {
	const op = "api.recent_screenings"

	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxRecent {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}

	reports, err := h.deps.RecentReports(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// HandleScreeningByID handles GET /screenings/{id},
// GET /screenings/{id}/referral?name=X and POST /screenings/{id}/referral.
func (h *ScreeningsHandler) HandleScreeningByID(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_screening"

	rest := strings.TrimPrefix(r.URL.Path, "/screenings/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	switch {
	case sub == "" && r.Method == http.MethodGet:
		report, err := h.deps.GetReport(r.Context(), id)
		if err != nil {
			h.writeLookupError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	case sub == "referral" && r.Method == http.MethodGet:
		draft, err := h.deps.ComposeReferral(r.Context(), id, r.URL.Query().Get("name"))
		if err != nil {
			h.writeLookupError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, draft)
	case sub == "referral" && r.Method == http.MethodPost:
		h.handleSendReferral(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

type sendReferralRequest struct {
	To   string `json:"to"`
	Name string `json:"name"`
}

func (h *ScreeningsHandler) handleSendReferral(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.send_referral"

	var req sendReferralRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.To == "" {
		writeError(w, http.StatusBadRequest, "missing_recipient", NewKind(op, ErrBadRequest))
		return
	}

	if err := h.deps.SendReferral(r.Context(), id, req.Name, req.To); err != nil {
		if errors.Is(err, serviceapp.ErrReferralDisabled) {
			writeError(w, http.StatusServiceUnavailable, "referral_disabled", Wrap(op, err))
			return
		}
		h.writeLookupError(w, op, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

func (h *ScreeningsHandler) writeLookupError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
		return
	}
	writeError(w, http.StatusUnprocessableEntity, "unprocessable", Wrap(op, err))
}
