package tenant

import "errors"

var (
	// ErrTenantNotFound is returned when no organization owns the requested tenant id.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrInvalidIdentifier is returned when the tenant header is not a base-10 integer.
	ErrInvalidIdentifier = errors.New("invalid tenant identifier format")

	// ErrNoTenantInContext is returned when tenant-only work runs in core scope.
	ErrNoTenantInContext = errors.New("no tenant in context")

	// ErrTenantNotAllowed is returned when core-only work runs in tenant scope.
	ErrTenantNotAllowed = errors.New("operation not available in tenant scope")
)
