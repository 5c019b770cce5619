package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrInvalidSession   = fmt.Errorf("invalid session")
	ErrSessionExpired   = fmt.Errorf("session expired")
	ErrAuthFailed       = fmt.Errorf("authentication failed")

	// Persistence errors
	ErrUserNotFound  = fmt.Errorf("user not found")
	ErrEntryNotFound = fmt.Errorf("list entry not found")
	ErrValidation    = fmt.Errorf("validation failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrUnknownCategory = fmt.Errorf("unknown category")
)
