package referral

import "errors"

// Sentinel kinds for referral errors.
var (
	ErrIncompleteReport   = errors.New("report missing metrics or assessment")
	ErrMissingCredentials = errors.New("gmail client credentials not configured")
	ErrMissingRecipient   = errors.New("missing referral recipient")
)
