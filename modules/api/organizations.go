package api

import (
	"net/http"

	"github.com/dmitrymomot/tenancy/handler"
	"github.com/dmitrymomot/tenancy/svc/identity"
)

type createOrganizationRequest struct {
	Name string `json:"name" form:"name"`
}

func (a *api) createOrganization(ctx handler.Context, req createOrganizationRequest) handler.Response {
	owner := principalFromContext(ctx).core
	if owner == nil {
		return handler.Fail(identity.ErrUnauthenticated)
	}

	created, err := a.orgs.Create(ctx, owner, req.Name)
	if err != nil {
		return handler.Fail(err)
	}

	resp := newOrganizationResponse(created.Organization)
	resp.Database = created.Database
	return handler.JSON(resp, handler.WithJSONStatus(http.StatusCreated))
}

func (a *api) listOrganizations(ctx handler.Context, _ struct{}) handler.Response {
	owner := principalFromContext(ctx).core
	if owner == nil {
		return handler.Fail(identity.ErrUnauthenticated)
	}

	orgs, err := a.orgs.List(ctx, owner.ID)
	if err != nil {
		return handler.Fail(err)
	}

	out := make([]organizationResponse, 0, len(orgs))
	for i := range orgs {
		out = append(out, newOrganizationResponse(&orgs[i]))
	}
	return handler.JSON(out)
}
