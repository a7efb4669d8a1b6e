package auth

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

const verificationTokenBytes = 32

// NewVerificationToken returns a URL-safe random token.
func NewVerificationToken() (string, error) {
	b := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// VerificationExpired reports whether a token issued at issuedAt is older
// than ttl at now. A zero issuedAt counts as expired.
func VerificationExpired(issuedAt time.Time, ttl time.Duration, now time.Time) bool {
	if issuedAt.IsZero() {
		return true
	}
	return now.Sub(issuedAt) > ttl
}
