// Package identity implements the user and organization flows of the
// service on top of the tenant database layer.
//
// Core users and organizations live in the core database. Each organization
// owns a tenant database named after its id, holding that tenant's users.
// CoreAuth and Organizations always talk to the core database; TenantAuth
// reaches the database of the tenant bound to the request context through
// TenantUsersSource, which routes via tenantdb.Router.
//
// Organizations.Create provisions the tenant database and replicates the
// owner with OwnerReplicator. A failure after the organization row was
// written is compensated: the cached handle is evicted, the database dropped
// and the row deleted.
package identity
