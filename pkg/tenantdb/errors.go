package tenantdb

import "errors"

var (
	// ErrRegistryClosed is returned by Registry.Get after Close.
	ErrRegistryClosed = errors.New("tenantdb: registry closed")

	// ErrProvisioningFailed wraps any failure to create or migrate a tenant database.
	ErrProvisioningFailed = errors.New("tenantdb: failed to provision tenant database")

	// ErrEvicted is returned to waiters of an open or provisioning run that
	// was superseded by Registry.Evict or Provisioner.DropDatabase.
	ErrEvicted = errors.New("tenantdb: tenant evicted while opening")

	// ErrInvalidTenantID is returned for ids that cannot name a database (zero or negative).
	ErrInvalidTenantID = errors.New("tenantdb: invalid tenant id")
)
