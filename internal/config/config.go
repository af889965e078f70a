// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer sources.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// CaptureDevice selects the webcam device index.
	CaptureDevice int `koanf:"capture_device"`

	// OracleURL is the websocket endpoint of the landmark oracle sidecar,
	// e.g. "ws://localhost:8765/landmarks".
	OracleURL string `koanf:"oracle_url"`

	// StimulusWidth and StimulusHeight define the stimulus coordinate space
	// gaze estimates are rescaled into.
	StimulusWidth  int `koanf:"stimulus_width"`
	StimulusHeight int `koanf:"stimulus_height"`

	// BaselineSeconds and FlickerSeconds set the collection phase durations.
	BaselineSeconds int `koanf:"baseline_seconds"`
	FlickerSeconds  int `koanf:"flicker_seconds"`

	// PauseSeconds is the rest period between phases.
	PauseSeconds int `koanf:"pause_seconds"`

	// FlickerRate toggles the flicker stimulus every N frames.
	FlickerRate int `koanf:"flicker_rate"`

	// Pursuit phase parameters.
	PursuitSeconds   int     `koanf:"pursuit_seconds"`
	PursuitAmplitude float64 `koanf:"pursuit_amplitude"`
	PursuitFrequency float64 `koanf:"pursuit_frequency"`
	PursuitCenterX   float64 `koanf:"pursuit_center_x"`
	PursuitCenterY   float64 `koanf:"pursuit_center_y"`
	PursuitTolerance float64 `koanf:"pursuit_tolerance"`

	// BlinkBaseThreshold is the fixed openness threshold used before enough
	// samples exist for the adaptive one.
	BlinkBaseThreshold float64 `koanf:"blink_base_threshold"`

	// BlinkDebounceFrames is the number of consecutive below-threshold frames
	// required to declare the eyes closed.
	BlinkDebounceFrames int `koanf:"blink_debounce_frames"`

	// QueueSize bounds the screening job queue.
	QueueSize int `koanf:"queue_size"`

	// StoreCapacity bounds the in-memory report store.
	StoreCapacity int `koanf:"store_capacity"`

	// MaxRecentReports caps GET /screenings?limit.
	MaxRecentReports int `koanf:"max_recent_reports"`

	// GeminiModel selects the model used for patient-facing summaries.
	// Summaries are skipped when GEMINI_API_KEY is unset.
	GeminiModel string `koanf:"gemini_model"`

	// ReferralEnabled turns on the Gmail referral sender.
	ReferralEnabled bool `koanf:"referral_enabled"`

	// GmailTokenPath stores the OAuth token for the referral sender.
	GmailTokenPath string `koanf:"gmail_token_path"`
}

// New creates a Config populated with defaults. The phase and pursuit
// defaults mirror the reference screening protocol.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		CaptureDevice:       0,
		OracleURL:           "ws://localhost:8765/landmarks",
		StimulusWidth:       800,
		StimulusHeight:      600,
		BaselineSeconds:     8,
		FlickerSeconds:      15,
		PauseSeconds:        2,
		FlickerRate:         10,
		PursuitSeconds:      12,
		PursuitAmplitude:    200,
		PursuitFrequency:    0.4,
		PursuitCenterX:      400,
		PursuitCenterY:      300,
		PursuitTolerance:    80,
		BlinkBaseThreshold:  0.25,
		BlinkDebounceFrames: 2,
		QueueSize:           16,
		StoreCapacity:       256,
		MaxRecentReports:    100,
		GeminiModel:         "gemini-2.0-flash",
		ReferralEnabled:     false,
		GmailTokenPath:      "gmail_token.json",
	}
}
