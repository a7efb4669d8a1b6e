package api

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/tenancy/pkg/jwt"
	"github.com/dmitrymomot/tenancy/pkg/tenant"
	"github.com/dmitrymomot/tenancy/svc/identity"
)

// principal is the authenticated caller. Exactly one field is set, matching
// the request scope.
type principal struct {
	core   *identity.CoreUser
	tenant *identity.TenantUser
}

type principalKey struct{}

func principalFromContext(ctx context.Context) principal {
	p, _ := ctx.Value(principalKey{}).(principal)
	return p
}

// authenticate resolves the verified bearer token to a user of the request
// scope. It runs after jwt.Middleware.
func (a *api) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		token, _ := jwt.GetToken(ctx)

		var (
			p   principal
			err error
		)
		if _, scoped := tenant.IDFromContext(ctx); scoped {
			p.tenant, err = a.tenants.Authenticate(ctx, token)
		} else {
			p.core, err = a.core.Authenticate(ctx, token)
		}
		if err != nil {
			a.writeUnauthorized(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, principalKey{}, p)))
	})
}
