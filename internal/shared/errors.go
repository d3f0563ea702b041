package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed = fmt.Errorf("authentication failed")

	// API and service errors
	ErrAPIRequest       = fmt.Errorf("API request failed")
	ErrMalformedPayload = fmt.Errorf("malformed upstream payload")

	// Mood detection errors
	ErrCameraUnavailable = fmt.Errorf("camera unavailable")
	ErrAlreadyRunning    = fmt.Errorf("camera already running")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
