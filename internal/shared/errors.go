package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig    = fmt.Errorf("invalid configuration")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// Authentication errors
	ErrAuthFailed   = fmt.Errorf("authentication failed")
	ErrStateInvalid = fmt.Errorf("oauth state mismatch")
	ErrTimeout      = fmt.Errorf("operation timed out")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
