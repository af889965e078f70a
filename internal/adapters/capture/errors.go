package capture

import "errors"

// Sentinel kinds for capture errors.
var (
	ErrClosed     = errors.New("capture source closed")
	ErrReadFailed = errors.New("video device read failed")
	ErrEmptyFrame = errors.New("empty video frame")
)
