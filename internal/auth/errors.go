package auth

import "errors"

// Sentinel errors for the auth workflows. Messages double as the
// user-facing JSON bodies, so they read like sentences.
var (
	ErrMissingFields      = errors.New("Email and password are required") // 400
	ErrDuplicateEmail     = errors.New("User already exists")             // 400
	ErrInvalidCredentials = errors.New("Invalid credentials")             // 400
	ErrUnauthenticated    = errors.New("Unauthorized")                    // 401
	ErrUserNotFound       = errors.New("User not found")                  // 404
	ErrSessionDestroy     = errors.New("Could not log out")               // 500
	ErrNoCredits          = errors.New("Out of credits")                  // 402
)
