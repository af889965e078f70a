// Package model contains domain models passed between layers.
package model

import "time"

// PhaseSummary captures everything a collection phase measured. It is built
// once when the phase ends and never mutated afterwards.
type PhaseSummary struct {
	Phase             string    `json:"phase"`                    // "baseline" or "flicker"
	BlinkCount        int       `json:"blink_count"`              // edge-counted blinks
	EyeClosedSeconds  float64   `json:"eye_closed_seconds"`       // accumulated wall-clock time with eyes closed
	GazeDistances     []float64 `json:"gaze_distances,omitempty"` // per-frame offset from the fixation reference, pixels
	DurationSeconds   float64   `json:"duration_seconds"`         // nominal phase duration
	FrameCount        int       `json:"frame_count"`              // frames observed (may be fewer than nominal on early stop)
	FaceDetectionRate float64   `json:"face_detection_rate"`      // fraction of frames with a detected face, in [0,1]
	AvgOpenness       float64   `json:"avg_openness"`             // mean eye-openness ratio over detected frames
	MinOpenness       float64   `json:"min_openness"`
	MaxOpenness       float64   `json:"max_openness"`
	Warnings          []string  `json:"warnings,omitempty"` // advisory validation warnings, never alter numbers
	Valid             bool      `json:"valid"`              // false when face detection was too sparse to trust
}

// PursuitSummary aggregates smooth-pursuit tracking error against the
// reference trajectory. MeanError and ErrorStd carry the failure sentinel
// when no gaze sample was ever collected.
type PursuitSummary struct {
	MeanError        float64 `json:"mean_error"`         // mean tracking error, pixels
	ErrorStd         float64 `json:"error_std"`          // standard deviation of tracking error
	InWindowFraction float64 `json:"in_window_fraction"` // fraction of ALL frames within tolerance, in [0,1]
	SampleCount      int     `json:"sample_count"`       // total frames observed, detected or not
}

// Metrics are the combined blink/gaze measurements derived from the baseline
// and flicker phase summaries. Computed once, immutable.
type Metrics struct {
	BaselineBlinkRate float64 `json:"baseline_blink_rate"` // blinks per minute
	FlickerBlinkRate  float64 `json:"flicker_blink_rate"`
	BlinkRateDelta    float64 `json:"blink_rate_delta"`    // flicker minus baseline
	EyeClosedFraction float64 `json:"eye_closed_fraction"` // in [0,1]
	GazeOffFraction   float64 `json:"gaze_off_fraction"`   // in [0,1]
}

// Symptoms are the self-reported flags collected before scoring.
type Symptoms struct {
	Headache         bool `json:"headache"`
	Nausea           bool `json:"nausea"`
	Dizziness        bool `json:"dizziness"`
	LightSensitivity bool `json:"light_sensitivity"`
}

// Count returns the number of reported symptoms.
func (s Symptoms) Count() int {
	n := 0
	for _, v := range []bool{s.Headache, s.Nausea, s.Dizziness, s.LightSensitivity} {
		if v {
			n++
		}
	}
	return n
}

// Risk tiers, coarse buckets over the numeric score.
const (
	RiskMinimal  = "MINIMAL"
	RiskLow      = "LOW"
	RiskModerate = "MODERATE"
	RiskHigh     = "HIGH"
)

// RiskAssessment is the terminal output of the scoring pipeline. The four
// fields are the entire contract downstream consumers depend on.
type RiskAssessment struct {
	RiskScore      int      `json:"risk_score"`
	RiskLevel      string   `json:"risk_level"`
	RiskFactors    []string `json:"risk_factors"`
	Recommendation string   `json:"recommendation"`
}

// Screening report states.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Report is the stored artifact of one full screening session.
type Report struct {
	ID         string          `json:"id"`
	Status     string          `json:"status"`
	Baseline   *PhaseSummary   `json:"baseline,omitempty"`
	Flicker    *PhaseSummary   `json:"flicker,omitempty"`
	Pursuit    *PursuitSummary `json:"pursuit,omitempty"`
	Metrics    *Metrics        `json:"metrics,omitempty"`
	Symptoms   Symptoms        `json:"symptoms"`
	Assessment *RiskAssessment `json:"assessment,omitempty"`
	Summary    string          `json:"summary,omitempty"` // patient-facing AI summary, may be empty
	Error      string          `json:"error,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}

// Clone returns a deep copy sharing no memory with the receiver. The store
// relies on it to isolate readers from a report still being written.
func (r *Report) Clone() *Report {
	if r == nil {
		return nil
	}
	out := *r
	out.Baseline = r.Baseline.clone()
	out.Flicker = r.Flicker.clone()
	if r.Pursuit != nil {
		p := *r.Pursuit
		out.Pursuit = &p
	}
	if r.Metrics != nil {
		m := *r.Metrics
		out.Metrics = &m
	}
	if r.Assessment != nil {
		a := *r.Assessment
		a.RiskFactors = append([]string(nil), r.Assessment.RiskFactors...)
		out.Assessment = &a
	}
	if r.FinishedAt != nil {
		t := *r.FinishedAt
		out.FinishedAt = &t
	}
	return &out
}

func (p *PhaseSummary) clone() *PhaseSummary {
	if p == nil {
		return nil
	}
	out := *p
	out.GazeDistances = append([]float64(nil), p.GazeDistances...)
	out.Warnings = append([]string(nil), p.Warnings...)
	return &out
}
