package tenantdb

import (
	"context"

	"github.com/dmitrymomot/tenancy/pkg/pg"
	"github.com/dmitrymomot/tenancy/pkg/tenant"
)

// Handle is a connection pool to one database. *pgxpool.Pool implements it.
type Handle interface {
	pg.DB
	Close()
}

// Opener creates the handle of a tenant that has no cached handle yet.
type Opener interface {
	Open(ctx context.Context, id tenant.ID) (Handle, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, id tenant.ID) (Handle, error)

func (f OpenerFunc) Open(ctx context.Context, id tenant.ID) (Handle, error) {
	return f(ctx, id)
}
