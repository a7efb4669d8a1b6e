package tenant

import (
	"net/http"
	"strings"
)

// Middleware classifies every request as core or tenant scoped.
//
// Each request gets its own Scope. When the resolver yields a tenant, it is set
// on that scope for the duration of the downstream call and reset afterwards,
// including when the handler panics. Resolution errors are answered by the
// error handler and the downstream handler is not invoked.
func Middleware(resolver Resolver, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{errorHandler: defaultErrorHandler}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			id, ok, err := resolver.Resolve(r)
			if err != nil {
				if cfg.logger != nil {
					cfg.logger.WarnContext(r.Context(), "rejected tenant header",
						"path", r.URL.Path, "error", err)
				}
				cfg.errorHandler(w, r, err)
				return
			}

			scope := NewScope()
			if ok {
				tok := scope.Set(id)
				defer scope.Reset(tok)
			}

			next.ServeHTTP(w, r.WithContext(WithScope(r.Context(), scope)))
		})
	}
}

// RequireTenant rejects core-scoped requests with ErrNoTenantInContext.
func RequireTenant(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := IDFromContext(r.Context()); !ok {
				errorHandler(w, r, ErrNoTenantInContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireCore rejects tenant-scoped requests with ErrTenantNotAllowed.
func RequireCore(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := IDFromContext(r.Context()); ok {
				errorHandler(w, r, ErrTenantNotAllowed)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
