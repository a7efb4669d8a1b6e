package pg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
	"github.com/pressly/goose/v3/lock"
)

// Migrate applies every pending migration found in fsys to the database behind
// pool. A Postgres advisory lock serialises concurrent runs against the same
// database, so several processes may call Migrate at startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, table string, log *slog.Logger) error {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if table == "" {
		table = goose.DefaultTablename
	}

	// goose speaks database/sql; this shares the pool's connections.
	db := stdlib.OpenDBFromPool(pool)
	defer func() {
		if err := db.Close(); err != nil {
			log.ErrorContext(ctx, "failed to close migration connection", "error", err)
		}
	}()

	store, err := database.NewStore(database.DialectPostgres, table)
	if err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	provider, err := goose.NewProvider("", db, fsys,
		goose.WithStore(store),
		goose.WithSessionLocker(locker),
		goose.WithDisableGlobalRegistry(true),
		goose.WithLogger(&migrateSlogAdapter{ctx: ctx, log: log}),
	)
	if err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	results, err := provider.Up(ctx)
	for _, res := range results {
		if res == nil || res.Source == nil {
			continue
		}
		log.InfoContext(ctx, "migration applied",
			"version", res.Source.Version,
			"path", res.Source.Path,
			"duration", res.Duration,
		)
	}
	if err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	return nil
}

// Migrator applies one embedded migration set to arbitrary databases on the
// server described by its Config. Each Apply opens a short-lived pool.
type Migrator struct {
	cfg  Config
	fsys fs.FS
	log  *slog.Logger
}

// NewMigrator creates a Migrator for the migrations in fsys.
func NewMigrator(cfg Config, fsys fs.FS, log *slog.Logger) *Migrator {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Migrator{cfg: cfg, fsys: fsys, log: log}
}

// Apply brings the schema of the named database up to date. It is idempotent.
func (m *Migrator) Apply(ctx context.Context, name string) error {
	cfg := m.cfg.ForDatabase(name, 2, 0)
	cfg.RetryAttempts = 1

	pool, err := Connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("migrate %s: %w", name, err)
	}
	defer pool.Close()

	return Migrate(ctx, pool, m.fsys, m.cfg.MigrationsTable, m.log.With("database", name))
}

// migrateSlogAdapter routes goose's printf-style output into slog.
type migrateSlogAdapter struct {
	ctx context.Context
	log *slog.Logger
}

func (a *migrateSlogAdapter) Fatalf(format string, v ...any) {
	a.log.ErrorContext(a.ctx, fmt.Sprintf(format, v...))
}

func (a *migrateSlogAdapter) Printf(format string, v ...any) {
	a.log.DebugContext(a.ctx, fmt.Sprintf(format, v...))
}
