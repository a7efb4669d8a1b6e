package api

import (
	"github.com/dmitrymomot/tenancy/handler"
	"github.com/dmitrymomot/tenancy/svc/identity"
)

func (a *api) me(ctx handler.Context, _ struct{}) handler.Response {
	p := principalFromContext(ctx)
	switch {
	case p.tenant != nil:
		return handler.JSON(newTenantUserResponse(p.tenant))
	case p.core != nil:
		return handler.JSON(newCoreUserResponse(p.core))
	default:
		return handler.Fail(identity.ErrUnauthenticated)
	}
}

type updateProfileRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// updateMe changes the email, and the password when one is given, of the
// calling tenant user. An omitted email keeps the current one.
func (a *api) updateMe(ctx handler.Context, req updateProfileRequest) handler.Response {
	u := principalFromContext(ctx).tenant
	if u == nil {
		return handler.Fail(identity.ErrUnauthenticated)
	}

	email := req.Email
	if email == "" {
		email = u.Email
	}
	updated, err := a.tenants.UpdateProfile(ctx, u, email, req.Password)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(newTenantUserResponse(updated))
}
