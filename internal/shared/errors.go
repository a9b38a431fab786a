package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Remote API errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrProfileNotFound    = fmt.Errorf("profile not found")
	ErrUnknownStatus      = fmt.Errorf("unknown status received")
	ErrNotReady           = fmt.Errorf("profile not ready")
	ErrRecordNotFound     = fmt.Errorf("recommendation not found")

	// Local state errors
	ErrNoIdentity   = fmt.Errorf("no saved profile")
	ErrSavedProfile = fmt.Errorf("saved profile check failed")
	ErrCanceled     = fmt.Errorf("operation canceled")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
