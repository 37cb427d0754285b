package domain

import "errors"

// Input errors.
var (
	ErrValidation = errors.New("invalid input")
)

// Authentication errors.
var (
	ErrAuthExpired   = errors.New("access credential expired")
	ErrAuthRejected  = errors.New("authentication rejected")
	ErrNoSession     = errors.New("no active session")
	ErrEmptyProfile  = errors.New("profile payload empty")
	ErrWrongIdentity = errors.New("route belongs to the other identity class")
)

// External collaborator errors.
var (
	ErrTransport          = errors.New("backend unreachable")
	ErrBackendUnavailable = errors.New("backend error")
	ErrProvider           = errors.New("otp provider error")
)

// Token and configuration errors.
var (
	ErrTokenGeneration   = errors.New("token generation failed")
	ErrCSRFSecretMissing = errors.New("csrf secret not configured")
	ErrCSRFRejected      = errors.New("csrf token rejected")
)

// Rate limiting errors.
var (
	ErrRateLimited = errors.New("rate limit exceeded")
)
