package identity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenancy/pkg/auth"
	"github.com/dmitrymomot/tenancy/pkg/jwt"
	"github.com/dmitrymomot/tenancy/pkg/tenant"
	"github.com/dmitrymomot/tenancy/pkg/tenantdb"
	"github.com/dmitrymomot/tenancy/svc/identity"
)

func newTenantAuth(t *testing.T) (*identity.TenantAuth, *memTenants, *jwt.Service) {
	t.Helper()
	tenants := newMemTenants()
	tokens := newTokens(t)
	return identity.NewTenantAuth(tenants, newHasher(), tokens, nil), tenants, tokens
}

func TestTenantAuth_Register(t *testing.T) {
	t.Parallel()

	t.Run("writes to the bound tenant only", func(t *testing.T) {
		t.Parallel()
		svc, tenants, _ := newTenantAuth(t)

		u, err := svc.Register(tenant.WithID(context.Background(), 1), "User@Example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", u.Email)
		assert.True(t, u.IsActive)

		assert.Equal(t, 1, tenants.db(1).count())
		assert.Equal(t, 0, tenants.db(2).count())
		assert.Equal(t, []tenantdb.Kind{tenantdb.Write}, tenants.kinds)
	})

	t.Run("same email in two tenants", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newTenantAuth(t)

		_, err := svc.Register(tenant.WithID(context.Background(), 1), "same@example.com", "password123")
		require.NoError(t, err)
		_, err = svc.Register(tenant.WithID(context.Background(), 2), "same@example.com", "password123")
		require.NoError(t, err)
		_, err = svc.Register(tenant.WithID(context.Background(), 2), "same@example.com", "password123")
		assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
	})

	t.Run("requires tenant", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newTenantAuth(t)

		_, err := svc.Register(context.Background(), "user@example.com", "password123")
		assert.ErrorIs(t, err, tenant.ErrNoTenantInContext)
	})

	t.Run("routing failure surfaces", func(t *testing.T) {
		t.Parallel()
		svc, tenants, _ := newTenantAuth(t)
		tenants.fail = tenantdb.ErrRegistryClosed

		_, err := svc.Register(tenant.WithID(context.Background(), 1), "user@example.com", "password123")
		assert.ErrorIs(t, err, tenantdb.ErrRegistryClosed)
	})
}

func TestTenantAuth_LoginAndAuthenticate(t *testing.T) {
	t.Parallel()

	svc, tenants, tokens := newTenantAuth(t)
	t1 := tenant.WithID(context.Background(), 1)
	t2 := tenant.WithID(context.Background(), 2)

	u, err := svc.Register(t1, "member@example.com", "password123")
	require.NoError(t, err)

	inactive, err := svc.Register(t1, "gone@example.com", "password123")
	require.NoError(t, err)
	inactive.IsActive = false
	require.NoError(t, tenants.db(1).UpdateTenantUser(context.Background(), inactive))

	t.Run("login issues tenant token", func(t *testing.T) {
		t.Parallel()
		session, got, err := svc.Login(t1, "member@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)

		claims, err := tokens.Decode(session.AccessToken)
		require.NoError(t, err)
		scope, scoped := claims.TenantID()
		assert.True(t, scoped)
		assert.Equal(t, int64(1), scope)

		authed, err := svc.Authenticate(t1, session.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, u.ID, authed.ID)

		_, err = svc.Authenticate(t2, session.AccessToken)
		assert.ErrorIs(t, err, identity.ErrUnauthenticated)
	})

	t.Run("login in another tenant fails", func(t *testing.T) {
		t.Parallel()
		_, _, err := svc.Login(t2, "member@example.com", "password123")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		_, _, err := svc.Login(t1, "member@example.com", "nope-nope")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("inactive", func(t *testing.T) {
		t.Parallel()
		_, _, err := svc.Login(t1, "gone@example.com", "password123")
		assert.ErrorIs(t, err, auth.ErrInactiveUser)
	})

	t.Run("no tenant", func(t *testing.T) {
		t.Parallel()
		_, _, err := svc.Login(context.Background(), "member@example.com", "password123")
		assert.ErrorIs(t, err, tenant.ErrNoTenantInContext)
		_, err = svc.Authenticate(context.Background(), "whatever")
		assert.ErrorIs(t, err, tenant.ErrNoTenantInContext)
	})

	t.Run("core token rejected", func(t *testing.T) {
		t.Parallel()
		token, err := tokens.Encode(jwt.NewClaims(u.ID, nil), 0)
		require.NoError(t, err)
		_, err = svc.Authenticate(t1, token)
		assert.ErrorIs(t, err, identity.ErrUnauthenticated)
	})
}

func TestTenantAuth_UpdateProfile(t *testing.T) {
	t.Parallel()

	svc, tenants, _ := newTenantAuth(t)
	ctx := tenant.WithID(context.Background(), 3)

	u, err := svc.Register(ctx, "old@example.com", "password123")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "taken@example.com", "password123")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, u, "New@Example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, u.PasswordHash, updated.PasswordHash)

	updated, err = svc.UpdateProfile(ctx, updated, "new@example.com", "another-password")
	require.NoError(t, err)
	assert.NotEqual(t, u.PasswordHash, updated.PasswordHash)

	_, _, err = svc.Login(ctx, "new@example.com", "another-password")
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, updated, "taken@example.com", "")
	assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)

	_, err = svc.UpdateProfile(ctx, updated, "bad", "")
	require.Error(t, err)
	assert.False(t, errors.Is(err, auth.ErrEmailAlreadyExists))

	stored, err := tenants.db(3).GetTenantUserByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", stored.Email)
}
