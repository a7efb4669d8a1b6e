package api

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/tenancy/handler"
	"github.com/dmitrymomot/tenancy/pkg/auth"
	"github.com/dmitrymomot/tenancy/pkg/jwt"
	"github.com/dmitrymomot/tenancy/pkg/ratelimiter"
	"github.com/dmitrymomot/tenancy/pkg/tenant"
	"github.com/dmitrymomot/tenancy/pkg/tenantdb"
	"github.com/dmitrymomot/tenancy/svc/identity"
)

var (
	errUnauthenticated = handler.ErrUnauthorized.WithMessage("Could not validate credentials")
	errTooManyAttempts = handler.ErrTooManyRequests.WithMessage("Too many login attempts, try again later")
)

// errorMap is checked in order; the first match wins. Errors that are joined
// with a more general one (owner sync wraps the duplicate email) come first.
var errorMap = []struct {
	target error
	http   handler.HTTPError
}{
	{identity.ErrOwnerAlreadySynced, handler.NewHTTPError(http.StatusConflict, "owner_already_synced").WithMessage("Owner already exists in tenant")},
	{auth.ErrEmailAlreadyExists, handler.NewHTTPError(http.StatusConflict, "email_already_exists").WithMessage("Email already registered")},
	{auth.ErrInvalidCredentials, handler.NewHTTPError(http.StatusUnauthorized, "invalid_credentials").WithMessage("Incorrect email or password")},
	{identity.ErrUnauthenticated, errUnauthenticated},
	{jwt.ErrMissingToken, errUnauthenticated},
	{jwt.ErrExpiredToken, errUnauthenticated.WithMessage("Token has expired")},
	{jwt.ErrInvalidToken, errUnauthenticated},
	{auth.ErrEmailNotVerified, handler.NewHTTPError(http.StatusForbidden, "email_not_verified").WithMessage("Email not verified")},
	{auth.ErrInactiveUser, handler.NewHTTPError(http.StatusForbidden, "inactive_user").WithMessage("Inactive user")},
	{identity.ErrNotOwner, handler.NewHTTPError(http.StatusForbidden, "not_owner").WithMessage("Only owners can create organizations")},
	{auth.ErrTokenRequired, handler.NewHTTPError(http.StatusBadRequest, "token_required").WithMessage("Verification token is required")},
	{auth.ErrTokenExpired, handler.NewHTTPError(http.StatusBadRequest, "verification_token_expired").WithMessage("Verification token has expired")},
	{auth.ErrTokenNotFound, handler.NewHTTPError(http.StatusNotFound, "verification_token_not_found").WithMessage("Invalid verification token")},
	{auth.ErrUserNotFound, handler.NewHTTPError(http.StatusNotFound, "user_not_found").WithMessage("User not found")},
	{identity.ErrOwnerNotFound, handler.NewHTTPError(http.StatusNotFound, "owner_not_found").WithMessage("Owner not found")},
	{identity.ErrOrganizationNotFound, handler.NewHTTPError(http.StatusNotFound, "organization_not_found").WithMessage("Organization not found")},
	{tenant.ErrTenantNotFound, handler.NewHTTPError(http.StatusNotFound, "tenant_not_found").WithMessage("Tenant not found")},
	{tenant.ErrInvalidIdentifier, handler.NewHTTPError(http.StatusBadRequest, "invalid_tenant_id").WithMessage("Invalid tenant ID format. Must be an integer.")},
	{tenant.ErrNoTenantInContext, handler.NewHTTPError(http.StatusBadRequest, "tenant_required").WithMessage("This endpoint requires the X-TENANT header")},
	{tenant.ErrTenantNotAllowed, handler.ErrNotFound.WithMessage("Not available for tenants")},
	{tenantdb.ErrProvisioningFailed, handler.NewHTTPError(http.StatusInternalServerError, "provisioning_failed").WithMessage("Failed to provision tenant database")},
	{tenantdb.ErrRegistryClosed, handler.ErrServiceUnavailable},
	{tenantdb.ErrEvicted, handler.ErrServiceUnavailable},
	{ratelimiter.ErrStoreUnavailable, handler.ErrServiceUnavailable},
}

// mapError translates domain errors into HTTP errors, keeping the original
// in the chain for logging. Unknown errors are returned unchanged and end up
// as 500.
func mapError(err error) error {
	var httpErr handler.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}
	for _, m := range errorMap {
		if errors.Is(err, m.target) {
			return errors.Join(m.http, err)
		}
	}
	return err
}
