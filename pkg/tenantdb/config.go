package tenantdb

import "time"

type Config struct {
	DatabasePrefix  string        `env:"TENANT_DB_PREFIX" envDefault:"tenant_"`   // DatabasePrefix is prepended to the tenant id to build the database name.
	MaxConns        int32         `env:"TENANT_MAX_CONNS" envDefault:"4"`         // MaxConns caps each tenant pool; the server holds one pool per active tenant.
	MinConns        int32         `env:"TENANT_MIN_CONNS" envDefault:"0"`         // MinConns is the number of idle connections kept per tenant pool.
	OpenTimeout     time.Duration `env:"TENANT_OPEN_TIMEOUT" envDefault:"30s"`    // OpenTimeout bounds provisioning plus connecting for one tenant.
	WarmOnStart     bool          `env:"TENANT_WARM_ON_START" envDefault:"false"` // WarmOnStart opens pools for every existing organization at startup.
	WarmConcurrency int           `env:"TENANT_WARM_CONCURRENCY" envDefault:"4"`  // WarmConcurrency limits parallel pool opens during warm-up.
}
