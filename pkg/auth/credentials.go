package auth

import (
	"strings"

	"github.com/dmitrymomot/tenancy/pkg/validator"
)

const (
	MinPasswordLength = 8
	// bcrypt ignores everything after 72 bytes.
	MaxPasswordLength = 72
)

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateCredentials checks a normalized email and a raw password.
func ValidateCredentials(email, password string) error {
	return validator.Apply(
		validator.ValidEmail("email", email),
		validator.MinLen("password", password, MinPasswordLength),
		validator.Rule{
			Check: func() bool { return len(password) <= MaxPasswordLength },
			Error: validator.ValidationError{Field: "password", Message: "must be at most 72 bytes long"},
		},
	)
}

// ValidateEmail checks a normalized email alone.
func ValidateEmail(email string) error {
	return validator.Apply(validator.ValidEmail("email", email))
}
