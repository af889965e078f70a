// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/oculo/internal/adapters/referral"
	"github.com/okian/oculo/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// StartScreening queues a screening run and returns its report ID.
	StartScreening(ctx context.Context, symptoms model.Symptoms, skipPursuit bool) (string, error)

	// Assess scores externally supplied measurements without running a
	// screening.
	Assess(ctx context.Context, m model.Metrics, p *model.PursuitSummary, symptoms model.Symptoms) model.RiskAssessment

	// Read operations expose stored reports.
	GetReport(ctx context.Context, id string) (*model.Report, error)
	RecentReports(ctx context.Context, limit int) ([]*model.Report, error)

	// ComposeReferral drafts the evaluation request email for a report.
	ComposeReferral(ctx context.Context, id, userName string) (referral.Draft, error)

	// SendReferral drafts and emails the referral for a report.
	SendReferral(ctx context.Context, id, userName, to string) error

	// Stats reports queue and store occupancy.
	Stats(ctx context.Context) (queued, stored int)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	assessmentsHandler *AssessmentsHandler
	screeningsHandler  *ScreeningsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(deps),
		assessmentsHandler: NewAssessmentsHandler(deps),
		screeningsHandler:  NewScreeningsHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/assessments", MetricsMiddleware(s.assessmentsHandler.HandlePostAssessment, "assessments"))
	mux.HandleFunc("/screenings", MetricsMiddleware(s.screeningsHandler.HandleScreenings, "screenings"))
	mux.HandleFunc("/screenings/", MetricsMiddleware(s.screeningsHandler.HandleScreeningByID, "screening"))
}

type symptomsRequest struct {
	Headache         bool `json:"headache"`
	Nausea           bool `json:"nausea"`
	Dizziness        bool `json:"dizziness"`
	LightSensitivity bool `json:"light_sensitivity"`
}

func (s symptomsRequest) toModel() model.Symptoms {
	return model.Symptoms{
		Headache:         s.Headache,
		Nausea:           s.Nausea,
		Dizziness:        s.Dizziness,
		LightSensitivity: s.LightSensitivity,
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
