package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/tenancy/handler"
	"github.com/dmitrymomot/tenancy/pkg/binder"
	"github.com/dmitrymomot/tenancy/pkg/httpserver"
	"github.com/dmitrymomot/tenancy/pkg/jwt"
	"github.com/dmitrymomot/tenancy/pkg/logger"
	"github.com/dmitrymomot/tenancy/pkg/ratelimiter"
	"github.com/dmitrymomot/tenancy/pkg/requestid"
	"github.com/dmitrymomot/tenancy/pkg/tenant"
	"github.com/dmitrymomot/tenancy/svc/identity"
)

// CoreAuthService is the core identity surface used by the API.
type CoreAuthService interface {
	Register(ctx context.Context, email, password string, isOwner bool) (*identity.Registration, error)
	VerifyEmail(ctx context.Context, token string) (bool, error)
	Login(ctx context.Context, email, password string) (*identity.Session, *identity.CoreUser, error)
	Authenticate(ctx context.Context, token string) (*identity.CoreUser, error)
}

// TenantAuthService is the tenant identity surface used by the API.
type TenantAuthService interface {
	Register(ctx context.Context, email, password string) (*identity.TenantUser, error)
	Login(ctx context.Context, email, password string) (*identity.Session, *identity.TenantUser, error)
	Authenticate(ctx context.Context, token string) (*identity.TenantUser, error)
	UpdateProfile(ctx context.Context, u *identity.TenantUser, email, password string) (*identity.TenantUser, error)
}

// OrganizationService creates and lists organizations.
type OrganizationService interface {
	Create(ctx context.Context, owner *identity.CoreUser, name string) (*identity.CreatedOrganization, error)
	List(ctx context.Context, ownerID int64) ([]identity.Organization, error)
}

// RouterOptions wires the API. LoginLimiter, RegisterLimiter and Metrics are
// optional.
type RouterOptions struct {
	CoreAuth      CoreAuthService
	TenantAuth    TenantAuthService
	Organizations OrganizationService
	Tokens        *jwt.Service
	Resolver      tenant.Resolver

	// LoginLimiter throttles login attempts per scope and email.
	LoginLimiter ratelimiter.RateLimiter
	// RegisterLimiter throttles registrations per client IP.
	RegisterLimiter ratelimiter.RateLimiter

	ReadyChecks  []httpserver.Check
	ReadyTimeout time.Duration
	Metrics      http.Handler
	Logger       *slog.Logger
}

type api struct {
	core         CoreAuthService
	tenants      TenantAuthService
	orgs         OrganizationService
	loginLimiter ratelimiter.RateLimiter
	errorHandler handler.ErrorHandler
	log          *slog.Logger
}

// Router builds the HTTP surface:
//
//	POST /api/auth/register   core or tenant, by X-TENANT
//	POST /api/auth/login      core or tenant, by X-TENANT
//	GET  /api/auth/verify     core only
//	POST /api/organizations   core owner, bearer
//	GET  /api/organizations   core, bearer
//	GET  /api/users/me        bearer, both scopes
//	PUT  /api/users/me        tenant, bearer
//	GET  /health, /ready, /metrics
func Router(opts RouterOptions) chi.Router {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	a := &api{
		core:         opts.CoreAuth,
		tenants:      opts.TenantAuth,
		orgs:         opts.Organizations,
		loginLimiter: opts.LoginLimiter,
		errorHandler: handler.NewErrorHandler(log, mapError),
		log:          log.With(logger.Component("api")),
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestid.Middleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", httpserver.LivenessHandler())
	r.Get("/ready", httpserver.ReadinessHandler(log, opts.ReadyTimeout, opts.ReadyChecks...))
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(tenant.Middleware(opts.Resolver,
			tenant.WithErrorHandler(a.writeError),
			tenant.WithLogger(log),
		))

		r.Route("/auth", func(r chi.Router) {
			register := handler.Wrap(a.register,
				handler.WithBinders[registerRequest](binder.JSON(), binder.Form()),
				handler.WithErrorHandler[registerRequest](a.errorHandler),
			)
			if opts.RegisterLimiter != nil {
				r.With(ratelimiter.Middleware(opts.RegisterLimiter,
					ratelimiter.Composite(ratelimiter.ByPath, ratelimiter.ByRemoteIP),
					ratelimiter.WithLimitedHandler(a.writeLimited),
					ratelimiter.WithStoreErrorHandler(a.writeError),
				)).Post("/register", register)
			} else {
				r.Post("/register", register)
			}

			r.Post("/login", handler.Wrap(a.login,
				handler.WithBinders[loginRequest](binder.JSON(), binder.Form()),
				handler.WithErrorHandler[loginRequest](a.errorHandler),
			))

			r.With(tenant.RequireCore(a.writeError)).Get("/verify", handler.Wrap(a.verify,
				handler.WithBinders[verifyRequest](binder.Query()),
				handler.WithErrorHandler[verifyRequest](a.errorHandler),
			))
		})

		requireAuth := chi.Chain(
			jwt.Middleware(opts.Tokens, jwt.MiddlewareConfig{ErrorHandler: a.writeUnauthorized}),
			a.authenticate,
		)

		r.Route("/organizations", func(r chi.Router) {
			r.Use(tenant.RequireCore(a.writeError))
			r.Use(requireAuth...)
			r.Post("/", handler.Wrap(a.createOrganization,
				handler.WithBinders[createOrganizationRequest](binder.JSON(), binder.Form()),
				handler.WithErrorHandler[createOrganizationRequest](a.errorHandler),
			))
			r.Get("/", handler.Wrap(a.listOrganizations,
				handler.WithErrorHandler[struct{}](a.errorHandler),
			))
		})

		r.Route("/users/me", func(r chi.Router) {
			r.With(requireAuth...).Get("/", handler.Wrap(a.me,
				handler.WithErrorHandler[struct{}](a.errorHandler),
			))
			r.With(tenant.RequireTenant(a.writeError)).With(requireAuth...).Put("/", handler.Wrap(a.updateMe,
				handler.WithBinders[updateProfileRequest](binder.JSON(), binder.Form()),
				handler.WithErrorHandler[updateProfileRequest](a.errorHandler),
			))
		})
	})

	return r
}

// writeError adapts the JSON error handler to plain http middleware.
func (a *api) writeError(w http.ResponseWriter, r *http.Request, err error) {
	a.errorHandler(handler.NewContext(w, r), err)
}

func (a *api) writeUnauthorized(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	a.writeError(w, r, err)
}

func (a *api) writeLimited(w http.ResponseWriter, r *http.Request, _ *ratelimiter.Result) {
	a.writeError(w, r, handler.ErrTooManyRequests)
}
