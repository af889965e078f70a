package testsession

import "time"

// HTTP status code constants.
const (
	StatusOK       = 200
	StatusAccepted = 202
)

// Polling configuration constants.
const (
	DefaultPollInterval  = 500 * time.Millisecond
	DefaultPollBudget    = 5 * time.Minute
	PercentageMultiplier = 100
)
