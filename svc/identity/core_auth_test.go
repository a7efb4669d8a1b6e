package identity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenancy/pkg/auth"
	"github.com/dmitrymomot/tenancy/pkg/jwt"
	"github.com/dmitrymomot/tenancy/pkg/validator"
	"github.com/dmitrymomot/tenancy/svc/identity"
)

const testSigningKey = "identity-test-signing-key"

func newTokens(t *testing.T, opts ...jwt.Option) *jwt.Service {
	t.Helper()
	svc, err := jwt.NewFromString(testSigningKey, opts...)
	require.NoError(t, err)
	return svc
}

func newHasher() auth.Hasher {
	return auth.NewBcryptHasher(4)
}

type coreFixture struct {
	users  *memCoreUsers
	mailer *recordingMailer
	tokens *jwt.Service
	svc    *identity.CoreAuth
	now    time.Time
}

func newCoreFixture(t *testing.T, now time.Time) *coreFixture {
	t.Helper()
	f := &coreFixture{
		users:  newMemCoreUsers(),
		mailer: &recordingMailer{},
		tokens: newTokens(t),
		now:    now,
	}
	f.svc = identity.NewCoreAuth(f.users, newHasher(), f.tokens,
		identity.CoreAuthConfig{AppName: "Tenancy", BaseURL: "https://app.test", VerificationTTL: time.Hour},
		identity.WithMailer(f.mailer),
		identity.WithCoreAuthClock(func() time.Time { return f.now }),
	)
	return f
}

func TestCoreAuth_Register(t *testing.T) {
	t.Parallel()

	t.Run("creates unverified user and issues token", func(t *testing.T) {
		t.Parallel()
		f := newCoreFixture(t, time.Now())

		reg, err := f.svc.Register(context.Background(), "  Alice@Example.COM ", "password123", true)
		require.NoError(t, err)

		assert.Equal(t, "alice@example.com", reg.User.Email)
		assert.False(t, reg.User.IsVerified)
		assert.True(t, reg.User.IsOwner)
		assert.NotEqual(t, "password123", reg.User.PasswordHash)
		assert.Len(t, reg.VerificationToken, 43)
		assert.Equal(t, identity.TokenTypeBearer, reg.Session.TokenType)

		claims, err := f.tokens.Decode(reg.Session.AccessToken)
		require.NoError(t, err)
		uid, err := claims.UserID()
		require.NoError(t, err)
		assert.Equal(t, reg.User.ID, uid)
		assert.True(t, claims.Owner)
		_, scoped := claims.TenantID()
		assert.False(t, scoped)

		require.Len(t, f.mailer.sent, 1)
		assert.Equal(t, "alice@example.com", f.mailer.sent[0].SendTo)
		assert.Contains(t, f.mailer.sent[0].BodyHTML, reg.VerificationToken)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		f := newCoreFixture(t, time.Now())

		_, err := f.svc.Register(context.Background(), "bob@example.com", "password123", false)
		require.NoError(t, err)
		_, err = f.svc.Register(context.Background(), "BOB@example.com", "password456", false)
		assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
	})

	t.Run("invalid input", func(t *testing.T) {
		t.Parallel()
		f := newCoreFixture(t, time.Now())

		_, err := f.svc.Register(context.Background(), "not-an-email", "short", false)
		require.Error(t, err)
		assert.True(t, validator.IsValidationError(err))
		assert.Empty(t, f.mailer.sent)
	})

	t.Run("mail failure does not fail registration", func(t *testing.T) {
		t.Parallel()
		f := newCoreFixture(t, time.Now())
		f.mailer.err = errors.New("smtp down")

		reg, err := f.svc.Register(context.Background(), "carol@example.com", "password123", false)
		require.NoError(t, err)
		assert.NotZero(t, reg.User.ID)
	})
}

func TestCoreAuth_VerifyEmail(t *testing.T) {
	t.Parallel()

	t.Run("verifies once", func(t *testing.T) {
		t.Parallel()
		f := newCoreFixture(t, time.Now())
		ctx := context.Background()

		reg, err := f.svc.Register(ctx, "dave@example.com", "password123", false)
		require.NoError(t, err)

		already, err := f.svc.VerifyEmail(ctx, reg.VerificationToken)
		require.NoError(t, err)
		assert.False(t, already)

		u, err := f.users.GetCoreUserByID(ctx, reg.User.ID)
		require.NoError(t, err)
		assert.True(t, u.IsVerified)
		assert.Nil(t, u.VerificationToken)

		// The token is cleared on success, so replaying it is unknown.
		_, err = f.svc.VerifyEmail(ctx, reg.VerificationToken)
		assert.ErrorIs(t, err, auth.ErrTokenNotFound)
	})

	t.Run("already verified", func(t *testing.T) {
		t.Parallel()
		f := newCoreFixture(t, time.Now())
		ctx := context.Background()

		reg, err := f.svc.Register(ctx, "erin@example.com", "password123", false)
		require.NoError(t, err)
		f.users.setVerified(reg.User.ID)

		already, err := f.svc.VerifyEmail(ctx, reg.VerificationToken)
		require.NoError(t, err)
		assert.True(t, already)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		f := newCoreFixture(t, time.Now())
		ctx := context.Background()

		reg, err := f.svc.Register(ctx, "frank@example.com", "password123", false)
		require.NoError(t, err)
		f.now = f.now.Add(2 * time.Hour)

		_, err = f.svc.VerifyEmail(ctx, reg.VerificationToken)
		assert.ErrorIs(t, err, auth.ErrTokenExpired)
	})

	t.Run("empty and unknown", func(t *testing.T) {
		t.Parallel()
		f := newCoreFixture(t, time.Now())

		_, err := f.svc.VerifyEmail(context.Background(), "")
		assert.ErrorIs(t, err, auth.ErrTokenRequired)
		_, err = f.svc.VerifyEmail(context.Background(), "nope")
		assert.ErrorIs(t, err, auth.ErrTokenNotFound)
	})
}

func TestCoreAuth_Login(t *testing.T) {
	t.Parallel()

	f := newCoreFixture(t, time.Now())
	ctx := context.Background()

	verified, err := f.svc.Register(ctx, "gina@example.com", "password123", true)
	require.NoError(t, err)
	_, err = f.svc.VerifyEmail(ctx, verified.VerificationToken)
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, "hank@example.com", "password123", false)
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"success", "GINA@example.com", "password123", nil},
		{"wrong password", "gina@example.com", "password999", auth.ErrInvalidCredentials},
		{"unknown email", "nobody@example.com", "password123", auth.ErrInvalidCredentials},
		{"unverified", "hank@example.com", "password123", auth.ErrEmailNotVerified},
		{"unverified wrong password", "hank@example.com", "password999", auth.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			session, u, err := f.svc.Login(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, session)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, verified.User.ID, u.ID)
			assert.NotEmpty(t, session.AccessToken)
		})
	}
}

func TestCoreAuth_Authenticate(t *testing.T) {
	t.Parallel()

	f := newCoreFixture(t, time.Now())
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, "ivy@example.com", "password123", false)
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		t.Parallel()
		u, err := f.svc.Authenticate(ctx, reg.Session.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, reg.User.ID, u.ID)
	})

	t.Run("tenant token rejected", func(t *testing.T) {
		t.Parallel()
		scope := int64(7)
		token, err := f.tokens.Encode(jwt.NewClaims(reg.User.ID, &scope), 0)
		require.NoError(t, err)

		_, err = f.svc.Authenticate(ctx, token)
		assert.ErrorIs(t, err, identity.ErrUnauthenticated)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		token, err := f.tokens.Encode(jwt.NewClaims(9999, nil), 0)
		require.NoError(t, err)

		_, err = f.svc.Authenticate(ctx, token)
		assert.ErrorIs(t, err, identity.ErrUnauthenticated)
	})

	t.Run("garbage", func(t *testing.T) {
		t.Parallel()
		_, err := f.svc.Authenticate(ctx, "not.a.token")
		assert.ErrorIs(t, err, identity.ErrUnauthenticated)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}
