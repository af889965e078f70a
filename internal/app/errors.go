package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotConfigured    = errors.New("service missing capture source or oracle")
	ErrQueueFull        = errors.New("screening queue full")
	ErrReferralDisabled = errors.New("no referral sender configured")
)
