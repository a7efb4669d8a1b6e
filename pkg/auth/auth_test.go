package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/tenancy/pkg/auth"
	"github.com/dmitrymomot/tenancy/pkg/validator"
)

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	h := auth.NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, h.Verify(hash, "correct horse"))
	assert.False(t, h.Verify(hash, "wrong horse"))
	assert.False(t, h.Verify("not-a-hash", "correct horse"))

	again, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "salted hashes differ")

	_, err = h.Hash(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, auth.ErrHashFailed)
}

func TestNewBcryptHasherCost(t *testing.T) {
	t.Parallel()

	assert.Equal(t, bcrypt.DefaultCost, auth.NewBcryptHasher(0).Cost())
	assert.Equal(t, bcrypt.DefaultCost, auth.NewBcryptHasher(99).Cost())
	assert.Equal(t, 12, auth.NewBcryptHasher(12).Cost())
}

func TestValidateCredentials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		email    string
		password string
		fields   []string
	}{
		{name: "valid", email: "a@b.io", password: "password1"},
		{name: "bad email", email: "a-b.io", password: "password1", fields: []string{"email"}},
		{name: "short password", email: "a@b.io", password: "short", fields: []string{"password"}},
		{name: "long password", email: "a@b.io", password: strings.Repeat("p", 73), fields: []string{"password"}},
		{name: "both", email: "", password: "", fields: []string{"email", "password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := auth.ValidateCredentials(tt.email, tt.password)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.fields, validator.ExtractValidationErrors(err).Fields())
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "owner@acme.io", auth.NormalizeEmail("  Owner@ACME.io "))
}

func TestVerificationToken(t *testing.T) {
	t.Parallel()

	a, err := auth.NewVerificationToken()
	require.NoError(t, err)
	b, err := auth.NewVerificationToken()
	require.NoError(t, err)

	assert.Len(t, a, 43)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "+")
	assert.NotContains(t, a, "/")
	assert.NotContains(t, a, "=")
}

func TestVerificationExpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)
	ttl := 24 * time.Hour

	assert.False(t, auth.VerificationExpired(now.Add(-time.Hour), ttl, now))
	assert.False(t, auth.VerificationExpired(now.Add(-ttl), ttl, now))
	assert.True(t, auth.VerificationExpired(now.Add(-ttl-time.Second), ttl, now))
	assert.True(t, auth.VerificationExpired(time.Time{}, ttl, now))
}
