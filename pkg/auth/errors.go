package auth

import "errors"

// Credential errors
var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrInactiveUser       = errors.New("inactive user")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

// Verification token errors
var (
	ErrTokenRequired = errors.New("verification token is required")
	ErrTokenExpired  = errors.New("verification token has expired")
	ErrTokenNotFound = errors.New("invalid verification token")
)

var ErrHashFailed = errors.New("failed to hash password")
