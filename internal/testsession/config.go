package testsession

import "time"

// Config holds configuration for the screening session test
type Config struct {
	BaseURL      string        // Base URL of the service
	Screenings   int           // Number of screenings to run
	Timeout      time.Duration // HTTP request timeout
	PollInterval time.Duration // Delay between report polls
	PollBudget   time.Duration // Maximum time to wait for one screening
	OutputFile   string        // Output file for completed reports
	LogFile      string        // Log file for test output
	Verbose      bool          // Enable verbose logging
	SkipPursuit  bool          // Skip the smooth pursuit phase

	// Self-reported symptoms submitted with each screening
	Headache         bool
	Nausea           bool
	Dizziness        bool
	LightSensitivity bool
}

// symptomFlags is the questionnaire payload.
type symptomFlags struct {
	Headache         bool `json:"headache"`
	Nausea           bool `json:"nausea"`
	Dizziness        bool `json:"dizziness"`
	LightSensitivity bool `json:"light_sensitivity"`
}

// startRequest is the body for POST /screenings.
type startRequest struct {
	Symptoms    symptomFlags `json:"symptoms"`
	SkipPursuit bool         `json:"skip_pursuit"`
}

// startResponse is the acknowledgement for a queued screening.
type startResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// phaseSummary mirrors one phase block of a report.
type phaseSummary struct {
	Phase             string   `json:"phase"`
	FrameCount        int      `json:"frame_count"`
	FaceDetectionRate float64  `json:"face_detection_rate"`
	BlinkCount        int      `json:"blink_count"`
	EyeClosedSeconds  float64  `json:"eye_closed_seconds"`
	AvgOpenness       float64  `json:"avg_openness"`
	Valid             bool     `json:"valid"`
	Warnings          []string `json:"warnings,omitempty"`
}

// pursuitSummary mirrors the smooth pursuit block of a report.
type pursuitSummary struct {
	MeanError        float64 `json:"mean_error"`
	ErrorStd         float64 `json:"error_std"`
	InWindowFraction float64 `json:"in_window_fraction"`
}

// reportMetrics mirrors the derived metrics block of a report.
type reportMetrics struct {
	BaselineBlinkRate float64 `json:"baseline_blink_rate"`
	FlickerBlinkRate  float64 `json:"flicker_blink_rate"`
	BlinkRateDelta    float64 `json:"blink_rate_delta"`
	EyeClosedFraction float64 `json:"eye_closed_fraction"`
	GazeOffFraction   float64 `json:"gaze_off_fraction"`
}

// reportAssessment mirrors the risk block of a report.
type reportAssessment struct {
	RiskScore      int      `json:"risk_score"`
	RiskLevel      string   `json:"risk_level"`
	RiskFactors    []string `json:"risk_factors"`
	Recommendation string   `json:"recommendation"`
}

// report is the wire shape of GET /screenings/{id}.
type report struct {
	ID         string            `json:"id"`
	Status     string            `json:"status"`
	Baseline   *phaseSummary     `json:"baseline,omitempty"`
	Flicker    *phaseSummary     `json:"flicker,omitempty"`
	Pursuit    *pursuitSummary   `json:"pursuit,omitempty"`
	Metrics    *reportMetrics    `json:"metrics,omitempty"`
	Symptoms   symptomFlags      `json:"symptoms"`
	Assessment *reportAssessment `json:"assessment,omitempty"`
	Summary    string            `json:"summary,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// assessmentRequest is the body for POST /assessments.
type assessmentRequest struct {
	Metrics  *reportMetrics  `json:"metrics"`
	Pursuit  *pursuitSummary `json:"pursuit,omitempty"`
	Symptoms symptomFlags    `json:"symptoms"`
}

// serviceStats is the wire shape of GET /stats.
type serviceStats struct {
	QueuedScreenings int `json:"queued_screenings"`
	StoredReports    int `json:"stored_reports"`
}

// Stats holds test statistics
type Stats struct {
	ScreeningsStarted    int
	ScreeningsCompleted  int
	ScreeningsFailed     int
	AssessmentChecks     int
	AssessmentMismatches int
	StartTime            time.Time
	EndTime              time.Time
	Duration             time.Duration
}
