// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/oculo/internal/domain/model"
)

// AssessmentDependencies defines the interface for pure scoring.
type AssessmentDependencies interface {
	Assess(ctx context.Context, m model.Metrics, p *model.PursuitSummary, symptoms model.Symptoms) model.RiskAssessment
}

// AssessmentsHandler scores caller-supplied measurements without touching
// the camera. Useful for re-scoring stored data and for integrations that
// run their own capture.
type AssessmentsHandler struct {
	deps AssessmentDependencies
}

// NewAssessmentsHandler creates a new assessments handler.
func NewAssessmentsHandler(deps AssessmentDependencies) *AssessmentsHandler {
	return &AssessmentsHandler{deps: deps}
}

type assessmentRequest struct {
	Metrics  *model.Metrics        `json:"metrics"`
	Pursuit  *model.PursuitSummary `json:"pursuit,omitempty"`
	Symptoms symptomsRequest       `json:"symptoms"`
}

func (a assessmentRequest) validate() error {
	if a.Metrics == nil {
		return errors.New("missing metrics")
	}
	switch {
	case a.Metrics.BaselineBlinkRate < 0 || a.Metrics.FlickerBlinkRate < 0:
		return errors.New("blink rates must be non-negative")
	case a.Metrics.EyeClosedFraction < 0 || a.Metrics.EyeClosedFraction > 1:
		return errors.New("eye_closed_fraction must be within [0,1]")
	case a.Metrics.GazeOffFraction < 0 || a.Metrics.GazeOffFraction > 1:
		return errors.New("gaze_off_fraction must be within [0,1]")
	}
	if a.Pursuit != nil && (a.Pursuit.InWindowFraction < 0 || a.Pursuit.InWindowFraction > 1) {
		return errors.New("in_window_fraction must be within [0,1]")
	}
	return nil
}

// HandlePostAssessment handles POST /assessments requests.
func (h *AssessmentsHandler) HandlePostAssessment(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_assessment"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req assessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	assessment := h.deps.Assess(r.Context(), *req.Metrics, req.Pursuit, req.Symptoms.toModel())
	writeJSON(w, http.StatusOK, assessment)
}
