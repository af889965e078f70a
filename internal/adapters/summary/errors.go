package summary

import "errors"

// Sentinel kinds for summary errors.
var (
	ErrIncompleteReport = errors.New("report missing metrics or assessment")
	ErrEmptySummary     = errors.New("empty summary from model")
)
