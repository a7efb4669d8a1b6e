package identity

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/tenancy/pkg/auth"
	"github.com/dmitrymomot/tenancy/pkg/jwt"
	"github.com/dmitrymomot/tenancy/pkg/logger"
	"github.com/dmitrymomot/tenancy/pkg/tenant"
	"github.com/dmitrymomot/tenancy/pkg/tenantdb"
)

// TenantAuth implements the identity flows inside the tenant bound to the
// request context. All storage access is routed through TenantUsersSource.
type TenantAuth struct {
	tenants TenantUsersSource
	hasher  auth.Hasher
	tokens  *jwt.Service
	log     *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewTenantAuth(tenants TenantUsersSource, hasher auth.Hasher, tokens *jwt.Service, log *slog.Logger) *TenantAuth {
	if log == nil {
		log = logger.Discard()
	}
	return &TenantAuth{
		tenants: tenants,
		hasher:  hasher,
		tokens:  tokens,
		log:     log.With(logger.Component("tenant_auth")),
	}
}

// Register creates an active user in the current tenant.
func (a *TenantAuth) Register(ctx context.Context, emailAddr, password string) (*TenantUser, error) {
	emailAddr = auth.NormalizeEmail(emailAddr)
	if err := auth.ValidateCredentials(emailAddr, password); err != nil {
		return nil, err
	}
	if _, ok := tenant.IDFromContext(ctx); !ok {
		return nil, tenant.ErrNoTenantInContext
	}

	users, err := a.tenants.Current(ctx, tenantdb.Write)
	if err != nil {
		return nil, err
	}
	hash, err := a.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	u := &TenantUser{Email: emailAddr, PasswordHash: hash, IsActive: true}
	if err := users.CreateTenantUser(ctx, u); err != nil {
		return nil, err
	}
	a.log.InfoContext(ctx, "tenant user registered", logger.UserID(u.ID))
	return u, nil
}

// Login issues a token scoped to the current tenant.
func (a *TenantAuth) Login(ctx context.Context, emailAddr, password string) (*Session, *TenantUser, error) {
	tid, ok := tenant.IDFromContext(ctx)
	if !ok {
		return nil, nil, tenant.ErrNoTenantInContext
	}
	users, err := a.tenants.Current(ctx, tenantdb.Read)
	if err != nil {
		return nil, nil, err
	}

	u, err := users.GetTenantUserByEmail(ctx, auth.NormalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			a.burnHash(password)
			return nil, nil, auth.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !a.hasher.Verify(u.PasswordHash, password) {
		return nil, nil, auth.ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, nil, auth.ErrInactiveUser
	}

	scope := tid.Int64()
	token, err := a.tokens.Encode(jwt.NewClaims(u.ID, &scope), 0)
	if err != nil {
		return nil, nil, err
	}
	return &Session{AccessToken: token, TokenType: TokenTypeBearer, ExpiresIn: a.tokens.TTL()}, u, nil
}

// Authenticate resolves a tenant token to its user. The token must have been
// issued for the tenant bound to ctx.
func (a *TenantAuth) Authenticate(ctx context.Context, token string) (*TenantUser, error) {
	tid, ok := tenant.IDFromContext(ctx)
	if !ok {
		return nil, tenant.ErrNoTenantInContext
	}

	claims, err := a.tokens.Decode(token)
	if err != nil {
		return nil, errors.Join(ErrUnauthenticated, err)
	}
	if scope, scoped := claims.TenantID(); !scoped || scope != tid.Int64() {
		return nil, ErrUnauthenticated
	}
	uid, err := claims.UserID()
	if err != nil {
		return nil, errors.Join(ErrUnauthenticated, err)
	}

	users, err := a.tenants.Current(ctx, tenantdb.Read)
	if err != nil {
		return nil, err
	}
	u, err := users.GetTenantUserByID(ctx, uid)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, auth.ErrInactiveUser
	}
	return u, nil
}

// UpdateProfile changes the email and, when password is non-empty, the
// password of u.
func (a *TenantAuth) UpdateProfile(ctx context.Context, u *TenantUser, emailAddr, password string) (*TenantUser, error) {
	updated := *u
	updated.Email = auth.NormalizeEmail(emailAddr)

	var err error
	if password != "" {
		err = auth.ValidateCredentials(updated.Email, password)
	} else {
		err = auth.ValidateEmail(updated.Email)
	}
	if err != nil {
		return nil, err
	}
	if password != "" {
		if updated.PasswordHash, err = a.hasher.Hash(password); err != nil {
			return nil, err
		}
	}

	users, err := a.tenants.Current(ctx, tenantdb.Write)
	if err != nil {
		return nil, err
	}
	if err := users.UpdateTenantUser(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (a *TenantAuth) burnHash(password string) {
	a.dummyOnce.Do(func() {
		a.dummyHash, _ = a.hasher.Hash("not-a-real-password")
	})
	a.hasher.Verify(a.dummyHash, password)
}
