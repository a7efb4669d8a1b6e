// Command server runs the multi-tenant identity API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/tenancy/migrations"
	"github.com/dmitrymomot/tenancy/modules/api"
	"github.com/dmitrymomot/tenancy/pkg/auth"
	"github.com/dmitrymomot/tenancy/pkg/config"
	"github.com/dmitrymomot/tenancy/pkg/email"
	"github.com/dmitrymomot/tenancy/pkg/httpserver"
	"github.com/dmitrymomot/tenancy/pkg/jwt"
	"github.com/dmitrymomot/tenancy/pkg/logger"
	"github.com/dmitrymomot/tenancy/pkg/pg"
	"github.com/dmitrymomot/tenancy/pkg/ratelimiter"
	"github.com/dmitrymomot/tenancy/pkg/redis"
	"github.com/dmitrymomot/tenancy/pkg/requestid"
	"github.com/dmitrymomot/tenancy/pkg/tenant"
	"github.com/dmitrymomot/tenancy/pkg/tenantdb"
	"github.com/dmitrymomot/tenancy/svc/identity"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("server stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		app        appConfig
		pgCfg      pg.Config
		tenantCfg  tenantdb.Config
		httpCfg    httpserver.Config
		redisCfg   redis.Config
		emailCfg   email.Config
		loginRate  ratelimiter.Config
		signupRate ratelimiter.Config
	)
	config.MustLoad(&app)
	config.MustLoad(&pgCfg)
	config.MustLoad(&tenantCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&emailCfg)
	config.MustLoad(&loginRate, config.WithPrefix("LOGIN_RATE_"))
	config.MustLoad(&signupRate, config.WithPrefix("REGISTER_RATE_"))

	log := logger.New(
		logger.WithEnvironment(app.Env, app.Name),
		logger.WithLevelName(app.LogLevel),
		logger.WithContextExtractors(requestid.LoggerExtractor(), tenant.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	corePool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return fmt.Errorf("connect core database: %w", err)
	}
	defer corePool.Close()

	if err := pg.Migrate(ctx, corePool, migrations.Core(), pgCfg.MigrationsTable, log); err != nil {
		return fmt.Errorf("migrate core database: %w", err)
	}

	metrics := tenantdb.NewMetrics(prometheus.DefaultRegisterer)
	provisioner := tenantdb.NewProvisioner(
		pg.NewAdmin(corePool),
		pg.NewMigrator(pgCfg, migrations.Tenant(), log),
		tenantdb.WithDatabasePrefix(tenantCfg.DatabasePrefix),
		tenantdb.WithProvisionerLogger(log),
		tenantdb.WithProvisionerMetrics(metrics),
	)

	orgStore := identity.NewOrganizationStore(corePool)
	registry := tenantdb.NewRegistry(corePool,
		tenantdb.NewPoolOpener(pgCfg, tenantCfg, provisioner, orgStore),
		tenantdb.WithOpenTimeout(tenantCfg.OpenTimeout),
		tenantdb.WithRegistryLogger(log),
		tenantdb.WithRegistryMetrics(metrics),
	)
	defer registry.Close()

	readyChecks := []httpserver.Check{{Name: "core_db", Func: pg.Healthcheck(corePool)}}

	var limiterStore ratelimiter.Store = ratelimiter.NewMemoryStore()
	if redisCfg.Enabled() {
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer func() { _ = client.Close() }()
		limiterStore = ratelimiter.NewRedisStore(client, ratelimiter.WithKeyPrefix(app.Name+":ratelimit:"))
		readyChecks = append(readyChecks, httpserver.Check{Name: "redis", Func: redis.Healthcheck(client)})
	} else {
		log.WarnContext(ctx, "REDIS_URL is not set, rate limits are kept per process")
	}
	if ms, ok := limiterStore.(*ratelimiter.MemoryStore); ok {
		defer ms.Close()
	}

	loginLimiter, err := ratelimiter.NewBucket(limiterStore, loginRate)
	if err != nil {
		return fmt.Errorf("login rate limiter: %w", err)
	}
	registerLimiter, err := ratelimiter.NewBucket(limiterStore, signupRate)
	if err != nil {
		return fmt.Errorf("register rate limiter: %w", err)
	}

	tokens, err := jwt.NewFromString(app.SecretKey,
		jwt.WithAlgorithm(app.Algorithm),
		jwt.WithTTL(app.AccessTokenExpire),
		jwt.WithIssuer(app.Name),
	)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}

	mailer, err := email.NewSender(emailCfg, log)
	if err != nil {
		return fmt.Errorf("email sender: %w", err)
	}

	hasher := auth.NewBcryptHasher(app.BcryptCost)
	coreUsers := identity.NewCoreUserStore(corePool)
	tenantUsers := identity.NewRoutedTenantUsers(tenantdb.NewRouter(registry))

	coreAuth := identity.NewCoreAuth(coreUsers, hasher, tokens,
		identity.CoreAuthConfig{
			AppName:         app.Name,
			BaseURL:         app.BaseURL,
			VerificationTTL: app.VerificationTokenExpire,
		},
		identity.WithCoreAuthLogger(log),
		identity.WithMailer(mailer),
	)
	tenantAuth := identity.NewTenantAuth(tenantUsers, hasher, tokens, log)
	organizations := identity.NewOrganizations(orgStore, provisioner, registry,
		identity.NewOwnerReplicator(coreUsers, tenantUsers, log), log)

	if tenantCfg.WarmOnStart {
		warm(ctx, log, orgStore, registry, tenantCfg.WarmConcurrency)
	}

	router := api.Router(api.RouterOptions{
		CoreAuth:        coreAuth,
		TenantAuth:      tenantAuth,
		Organizations:   organizations,
		Tokens:          tokens,
		Resolver:        tenant.NewHeaderResolver(tenant.DefaultHeader),
		LoginLimiter:    loginLimiter,
		RegisterLimiter: registerLimiter,
		ReadyChecks:     readyChecks,
		ReadyTimeout:    httpCfg.ReadyCheckTimeout,
		Metrics:         promhttp.Handler(),
		Logger:          log,
	})

	server := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithShutdownHook("tenant_registry", func(context.Context) error {
			registry.Close()
			return nil
		}),
	)
	if err := server.Run(ctx, router); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// warm opens the pools of existing tenants. Failures are logged and do not
// prevent startup; the tenant is opened on first use instead.
func warm(ctx context.Context, log *slog.Logger, orgs *identity.OrganizationStore, registry *tenantdb.Registry, concurrency int) {
	ids, err := orgs.ListOrganizationIDs(ctx)
	if err != nil {
		log.WarnContext(ctx, "list tenants for warm-up", logger.Error(err))
		return
	}
	if err := registry.Warm(ctx, ids, concurrency); err != nil {
		log.WarnContext(ctx, "tenant warm-up incomplete", logger.Error(err))
		return
	}
	log.InfoContext(ctx, "tenant pools warmed", slog.Int("tenants", len(ids)))
}
