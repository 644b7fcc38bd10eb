package domain

import "errors"

// Error taxonomy shared by all services. Handlers map these to HTTP status
// codes; services wrap them with context via fmt.Errorf and %w.
var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrNotFound               = errors.New("not found")
	ErrConflict               = errors.New("conflict")
	ErrValidation             = errors.New("validation failed")
	ErrUpstreamFailure        = errors.New("upstream failure")
)
