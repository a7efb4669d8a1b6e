package identity

import (
	"context"

	"github.com/dmitrymomot/tenancy/pkg/tenant"
	"github.com/dmitrymomot/tenancy/pkg/tenantdb"
)

// CoreUserStorage persists core users. Lookups return auth.ErrUserNotFound
// (auth.ErrTokenNotFound for verification tokens); duplicate emails return
// auth.ErrEmailAlreadyExists.
type CoreUserStorage interface {
	CreateCoreUser(ctx context.Context, u *CoreUser) error
	GetCoreUserByID(ctx context.Context, id int64) (*CoreUser, error)
	GetCoreUserByEmail(ctx context.Context, email string) (*CoreUser, error)
	GetCoreUserByVerificationToken(ctx context.Context, token string) (*CoreUser, error)
	MarkCoreUserVerified(ctx context.Context, id int64) error
}

// OrganizationStorage persists organizations in the core database.
type OrganizationStorage interface {
	CreateOrganization(ctx context.Context, o *Organization) error
	GetOrganization(ctx context.Context, id tenant.ID) (*Organization, error)
	OrganizationExists(ctx context.Context, id tenant.ID) (bool, error)
	ListOrganizationsByOwner(ctx context.Context, ownerID int64) ([]Organization, error)
	ListOrganizationIDs(ctx context.Context) ([]tenant.ID, error)
	DeleteOrganization(ctx context.Context, id tenant.ID) error
}

// TenantUserStorage persists users of a single tenant database.
type TenantUserStorage interface {
	CreateTenantUser(ctx context.Context, u *TenantUser) error
	GetTenantUserByID(ctx context.Context, id int64) (*TenantUser, error)
	GetTenantUserByEmail(ctx context.Context, email string) (*TenantUser, error)
	UpdateTenantUser(ctx context.Context, u *TenantUser) error
}

// TenantUsersSource hands out tenant user storage bound to a database.
type TenantUsersSource interface {
	// Current routes through the tenant bound to ctx.
	Current(ctx context.Context, kind tenantdb.Kind) (TenantUserStorage, error)
	// For targets an explicit tenant regardless of ctx.
	For(ctx context.Context, id tenant.ID) (TenantUserStorage, error)
}

// RoutedTenantUsers implements TenantUsersSource on top of the tenant router.
type RoutedTenantUsers struct {
	router *tenantdb.Router
}

func NewRoutedTenantUsers(router *tenantdb.Router) *RoutedTenantUsers {
	return &RoutedTenantUsers{router: router}
}

func (s *RoutedTenantUsers) Current(ctx context.Context, kind tenantdb.Kind) (TenantUserStorage, error) {
	db, err := s.router.DB(ctx, tenantdb.Operation{Kind: kind, Family: tenantdb.FamilyTenant})
	if err != nil {
		return nil, err
	}
	return NewTenantUserStore(db), nil
}

func (s *RoutedTenantUsers) For(ctx context.Context, id tenant.ID) (TenantUserStorage, error) {
	return s.Current(tenant.WithID(ctx, id), tenantdb.Write)
}
