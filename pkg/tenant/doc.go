// Package tenant binds the active tenant to a unit of work.
//
// A request is either core scoped (no tenant header) or tenant scoped (the
// X-TENANT header carries the integer id of an organization). The binding lives
// in a per-request Scope stored in the request context, never in process-wide
// state, so concurrent requests cannot observe each other's tenant.
//
// # Architecture
//
// Scope is a small stack: Set pushes a tenant and returns a Token, Reset pops
// it again. Reset only accepts the most recent outstanding token, so a stale
// token left over from an earlier call cannot clobber a newer binding.
//
// Middleware resolves the tenant with a Resolver (HeaderResolver by default),
// installs a fresh Scope into the request context and defers the matching
// Reset. Malformed headers are answered with 400 before any handler runs.
//
// Anything below the middleware reads the tenant with IDFromContext. Code that
// does not run behind the middleware (jobs, provisioning, tests) binds one with
// WithID.
//
// # Usage
//
//	r := chi.NewRouter()
//	r.Use(tenant.Middleware(tenant.NewHeaderResolver(tenant.DefaultHeader)))
//
//	r.With(tenant.RequireTenant(nil)).Get("/api/users/me", func(w http.ResponseWriter, r *http.Request) {
//		id := tenant.MustIDFromContext(r.Context())
//		_ = id
//	})
//
// # Logging
//
// LoggerExtractor plugs into logger.WithContextExtractors and adds tenant_id
// to every record written with a tenant-scoped context.
package tenant
