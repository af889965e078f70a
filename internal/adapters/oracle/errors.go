package oracle

import "errors"

// Sentinel kinds for oracle errors.
var (
	ErrNotConnected = errors.New("oracle not connected")
	ErrExhausted    = errors.New("scripted oracle exhausted")
)
