package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/tenancy/pkg/auth"
	"github.com/dmitrymomot/tenancy/pkg/logger"
	"github.com/dmitrymomot/tenancy/pkg/tenant"
)

// OwnerReplicator copies an organization owner from the core database into
// the organization's tenant database so the owner can log in there with the
// same credentials.
type OwnerReplicator struct {
	users   CoreUserStorage
	tenants TenantUsersSource
	log     *slog.Logger
}

func NewOwnerReplicator(users CoreUserStorage, tenants TenantUsersSource, log *slog.Logger) *OwnerReplicator {
	if log == nil {
		log = logger.Discard()
	}
	return &OwnerReplicator{users: users, tenants: tenants, log: log.With(logger.Component("owner_replicator"))}
}

// SyncOwner inserts the core user ownerID as an active tenant user of orgID,
// reusing its email and password hash. A second call for the same pair fails
// with ErrOwnerAlreadySynced instead of creating a duplicate.
func (r *OwnerReplicator) SyncOwner(ctx context.Context, orgID tenant.ID, ownerID int64) (*TenantUser, error) {
	owner, err := r.users.GetCoreUserByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("load owner: %w", err)
	}

	users, err := r.tenants.For(ctx, orgID)
	if err != nil {
		return nil, err
	}

	tu := &TenantUser{
		Email:        owner.Email,
		PasswordHash: owner.PasswordHash,
		IsActive:     true,
	}
	if err := users.CreateTenantUser(ctx, tu); err != nil {
		if errors.Is(err, auth.ErrEmailAlreadyExists) {
			return nil, errors.Join(ErrOwnerAlreadySynced, err)
		}
		return nil, fmt.Errorf("replicate owner: %w", err)
	}

	r.log.InfoContext(ctx, "owner replicated to tenant",
		logger.UserID(ownerID),
		logger.TenantID(orgID.Int64()),
	)
	return tu, nil
}
