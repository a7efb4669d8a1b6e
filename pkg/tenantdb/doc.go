// Package tenantdb owns the per-tenant database layer: provisioning of
// tenant_<id> databases, a lazily populated registry of connection pools and
// the router that sends each data access to the core or the tenant database.
//
// # Architecture
//
//	request ─► tenant.Middleware ─► Router.Route ─► Registry.Get ─► PoolOpener.Open
//	                                                                  │
//	                                                                  ├─ OrganizationLookup (core)
//	                                                                  ├─ Provisioner.EnsureDatabase
//	                                                                  │    ├─ Admin.DatabaseExists / CreateDatabase
//	                                                                  │    └─ Migrator.Apply (tenant schema)
//	                                                                  └─ pg.Connect (tenant_<id>)
//
// Registry and Provisioner both collapse concurrent work for the same tenant
// into one flight with golang.org/x/sync/singleflight, so a burst of first
// requests to a new tenant creates one database and one pool.
//
// # Usage
//
//	admin := pg.NewAdmin(corePool)
//	migrator := pg.NewMigrator(pgCfg, migrations.Tenant(), log)
//	prov := tenantdb.NewProvisioner(admin, migrator)
//	opener := tenantdb.NewPoolOpener(pgCfg, cfg, prov, organizations)
//	registry := tenantdb.NewRegistry(corePool, opener)
//	defer registry.Close()
//
//	router := tenantdb.NewRouter(registry)
//	db, err := router.DB(ctx, tenantdb.Operation{Kind: tenantdb.Read, Family: tenantdb.FamilyTenant})
package tenantdb
