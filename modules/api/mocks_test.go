package api_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/tenancy/pkg/tenant"
	"github.com/dmitrymomot/tenancy/svc/identity"
)

type mockCoreAuth struct{ mock.Mock }

func (m *mockCoreAuth) Register(ctx context.Context, email, password string, isOwner bool) (*identity.Registration, error) {
	args := m.Called(ctx, email, password, isOwner)
	reg, _ := args.Get(0).(*identity.Registration)
	return reg, args.Error(1)
}

func (m *mockCoreAuth) VerifyEmail(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *mockCoreAuth) Login(ctx context.Context, email, password string) (*identity.Session, *identity.CoreUser, error) {
	args := m.Called(ctx, email, password)
	s, _ := args.Get(0).(*identity.Session)
	u, _ := args.Get(1).(*identity.CoreUser)
	return s, u, args.Error(2)
}

func (m *mockCoreAuth) Authenticate(ctx context.Context, token string) (*identity.CoreUser, error) {
	args := m.Called(ctx, token)
	u, _ := args.Get(0).(*identity.CoreUser)
	return u, args.Error(1)
}

type mockTenantAuth struct{ mock.Mock }

func (m *mockTenantAuth) Register(ctx context.Context, email, password string) (*identity.TenantUser, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(0).(*identity.TenantUser)
	return u, args.Error(1)
}

func (m *mockTenantAuth) Login(ctx context.Context, email, password string) (*identity.Session, *identity.TenantUser, error) {
	args := m.Called(ctx, email, password)
	s, _ := args.Get(0).(*identity.Session)
	u, _ := args.Get(1).(*identity.TenantUser)
	return s, u, args.Error(2)
}

func (m *mockTenantAuth) Authenticate(ctx context.Context, token string) (*identity.TenantUser, error) {
	args := m.Called(ctx, token)
	u, _ := args.Get(0).(*identity.TenantUser)
	return u, args.Error(1)
}

func (m *mockTenantAuth) UpdateProfile(ctx context.Context, u *identity.TenantUser, email, password string) (*identity.TenantUser, error) {
	args := m.Called(ctx, u, email, password)
	out, _ := args.Get(0).(*identity.TenantUser)
	return out, args.Error(1)
}

type mockOrganizations struct{ mock.Mock }

func (m *mockOrganizations) Create(ctx context.Context, owner *identity.CoreUser, name string) (*identity.CreatedOrganization, error) {
	args := m.Called(ctx, owner, name)
	c, _ := args.Get(0).(*identity.CreatedOrganization)
	return c, args.Error(1)
}

func (m *mockOrganizations) List(ctx context.Context, ownerID int64) ([]identity.Organization, error) {
	args := m.Called(ctx, ownerID)
	orgs, _ := args.Get(0).([]identity.Organization)
	return orgs, args.Error(1)
}

// inTenant matches a context bound to id.
func inTenant(id tenant.ID) any {
	return mock.MatchedBy(func(ctx context.Context) bool {
		got, ok := tenant.IDFromContext(ctx)
		return ok && got == id
	})
}

// inCore matches a context with no tenant bound.
func inCore() any {
	return mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := tenant.IDFromContext(ctx)
		return !ok
	})
}
