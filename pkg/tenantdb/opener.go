package tenantdb

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/tenancy/pkg/pg"
	"github.com/dmitrymomot/tenancy/pkg/tenant"
)

// OrganizationLookup reports whether an organization, and therefore a
// tenant, with the given id exists.
type OrganizationLookup interface {
	OrganizationExists(ctx context.Context, id tenant.ID) (bool, error)
}

// DatabaseEnsurer is the part of Provisioner the opener depends on.
type DatabaseEnsurer interface {
	EnsureDatabase(ctx context.Context, id tenant.ID) (string, error)
}

// PoolOpener opens pgx pools for tenant databases on the core server.
type PoolOpener struct {
	pgCfg   pg.Config
	cfg     Config
	ensurer DatabaseEnsurer
	lookup  OrganizationLookup
}

// NewPoolOpener creates an opener. Unknown tenants fail with
// tenant.ErrTenantNotFound before any database work happens.
func NewPoolOpener(pgCfg pg.Config, cfg Config, ensurer DatabaseEnsurer, lookup OrganizationLookup) *PoolOpener {
	return &PoolOpener{
		pgCfg:   pgCfg,
		cfg:     cfg,
		ensurer: ensurer,
		lookup:  lookup,
	}
}

func (o *PoolOpener) Open(ctx context.Context, id tenant.ID) (Handle, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: %d", tenant.ErrTenantNotFound, id)
	}
	if o.lookup != nil {
		exists, err := o.lookup.OrganizationExists(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("lookup organization %d: %w", id, err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: %d", tenant.ErrTenantNotFound, id)
		}
	}

	name, err := o.ensurer.EnsureDatabase(ctx, id)
	if err != nil {
		return nil, err
	}

	cfg := o.pgCfg.ForDatabase(name, o.cfg.MaxConns, o.cfg.MinConns)
	cfg.RetryAttempts = 1
	pool, err := pg.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", name, err)
	}
	return pool, nil
}
