package tenantdb

import (
	"context"

	"github.com/dmitrymomot/tenancy/pkg/pg"
	"github.com/dmitrymomot/tenancy/pkg/tenant"
)

// Family groups the models that live in the same kind of database.
type Family int

const (
	// FamilyCore covers core users and organizations; always the core database.
	FamilyCore Family = iota
	// FamilyTenant covers tenant users; the database of the bound tenant.
	FamilyTenant
)

// Kind tells reads from writes. Both route the same way today.
type Kind int

const (
	Read Kind = iota
	Write
)

// Operation describes a data access about to happen.
type Operation struct {
	Kind   Kind
	Family Family
}

// Route is the routing decision for one operation.
type Route struct {
	Tenant tenant.ID
	Scoped bool // false when the operation goes to the core database
	DB     Handle
}

// HandleSource is the part of Registry the router depends on.
type HandleSource interface {
	Core() Handle
	Get(ctx context.Context, id tenant.ID) (Handle, error)
}

// Router picks the database for an operation from the tenant bound to ctx.
type Router struct {
	handles HandleSource
}

func NewRouter(handles HandleSource) *Router {
	return &Router{handles: handles}
}

// Route returns the core database for core models and for tenant models when
// no tenant is bound, and the tenant database otherwise.
func (r *Router) Route(ctx context.Context, op Operation) (Route, error) {
	if op.Family == FamilyCore {
		return Route{DB: r.handles.Core()}, nil
	}
	id, ok := tenant.IDFromContext(ctx)
	if !ok {
		return Route{DB: r.handles.Core()}, nil
	}
	h, err := r.handles.Get(ctx, id)
	if err != nil {
		return Route{}, err
	}
	return Route{Tenant: id, Scoped: true, DB: h}, nil
}

// DB is Route without the routing metadata.
func (r *Router) DB(ctx context.Context, op Operation) (pg.DB, error) {
	route, err := r.Route(ctx, op)
	if err != nil {
		return nil, err
	}
	return route.DB, nil
}
