package jwt_test

import (
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenancy/pkg/jwt"
)

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := jwt.New(nil)
	assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)

	_, err = jwt.NewFromString("secret", jwt.WithAlgorithm("RS256"))
	assert.ErrorIs(t, err, jwt.ErrInvalidSigningMethod)

	for _, alg := range []string{"", "HS256", "HS384", "HS512"} {
		svc, err := jwt.NewFromString("secret", jwt.WithAlgorithm(alg))
		require.NoError(t, err, alg)
		assert.Equal(t, 30*time.Minute, svc.TTL())
	}
}

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	svc, err := jwt.NewFromString("secret", jwt.WithIssuer("tenancy"))
	require.NoError(t, err)

	t.Run("core token", func(t *testing.T) {
		t.Parallel()
		c := jwt.NewClaims(12, nil)
		c.Owner = true

		token, err := svc.Encode(c, time.Minute)
		require.NoError(t, err)

		got, err := svc.Decode(token)
		require.NoError(t, err)

		uid, err := got.UserID()
		require.NoError(t, err)
		assert.Equal(t, int64(12), uid)
		assert.True(t, got.Owner)
		_, scoped := got.TenantID()
		assert.False(t, scoped)
		assert.Equal(t, "tenancy", got.Issuer)
		require.NotNil(t, got.ExpiresAt)
		assert.WithinDuration(t, time.Now().Add(time.Minute), got.ExpiresAt.Time, 2*time.Second)
	})

	t.Run("tenant token keeps tenant zero distinct from core", func(t *testing.T) {
		t.Parallel()
		zero := int64(0)
		token, err := svc.Encode(jwt.NewClaims(1, &zero), 0)
		require.NoError(t, err)

		got, err := svc.Decode(token)
		require.NoError(t, err)
		tid, scoped := got.TenantID()
		assert.True(t, scoped)
		assert.Equal(t, int64(0), tid)
	})

	t.Run("empty subject", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Encode(jwt.Claims{}, 0)
		assert.ErrorIs(t, err, jwt.ErrInvalidClaims)
	})
}

func TestDecodeFailures(t *testing.T) {
	t.Parallel()

	svc, err := jwt.NewFromString("secret")
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		past, err := jwt.NewFromString("secret", jwt.WithClock(func() time.Time {
			return time.Now().Add(-2 * time.Hour)
		}))
		require.NoError(t, err)
		token, err := past.Encode(jwt.NewClaims(1, nil), time.Hour)
		require.NoError(t, err)

		_, err = svc.Decode(token)
		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
	})

	t.Run("wrong key", func(t *testing.T) {
		t.Parallel()
		other, err := jwt.NewFromString("other")
		require.NoError(t, err)
		token, err := other.Encode(jwt.NewClaims(1, nil), 0)
		require.NoError(t, err)

		_, err = svc.Decode(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("algorithm mismatch", func(t *testing.T) {
		t.Parallel()
		hs512, err := jwt.NewFromString("secret", jwt.WithAlgorithm("HS512"))
		require.NoError(t, err)
		token, err := hs512.Encode(jwt.NewClaims(1, nil), 0)
		require.NoError(t, err)

		_, err = svc.Decode(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		t.Parallel()
		token, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.MapClaims{
			"sub": "1",
			"exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString(gojwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Decode(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("missing expiry", func(t *testing.T) {
		t.Parallel()
		token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{"sub": "1"}).
			SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = svc.Decode(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("tampered payload", func(t *testing.T) {
		t.Parallel()
		token, err := svc.Encode(jwt.NewClaims(1, nil), 0)
		require.NoError(t, err)
		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		parts[1] = parts[1][:len(parts[1])-2] + "AA"

		_, err = svc.Decode(strings.Join(parts, "."))
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("garbage and empty", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Decode("not-a-token")
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
		_, err = svc.Decode("")
		assert.ErrorIs(t, err, jwt.ErrMissingToken)
	})
}

func TestClaimsUserID(t *testing.T) {
	t.Parallel()

	c := jwt.Claims{}
	c.Subject = "abc"
	_, err := c.UserID()
	assert.ErrorIs(t, err, jwt.ErrInvalidClaims)

	c.Subject = "0"
	_, err = c.UserID()
	assert.ErrorIs(t, err, jwt.ErrInvalidClaims)
}
