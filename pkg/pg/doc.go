// Package pg wraps github.com/jackc/pgx/v5 for this service: pool setup with
// retries, goose migrations from embedded SQL, database lifecycle statements
// for per-tenant databases and error classification helpers.
//
// # Building blocks
//
//   - Config is populated from environment variables. ForDatabase derives the
//     configuration of a sibling database on the same server, which is how
//     tenant pools are opened.
//   - Connect opens a *pgxpool.Pool and pings it with linear back-off.
//   - Migrate and Migrator run goose migrations through the Provider API
//     under an advisory lock.
//   - Admin checks, creates and drops databases through the core pool.
//   - IsDuplicateKeyError, IsDuplicateDatabaseError and friends classify
//     *pgconn.PgError values by SQLSTATE using github.com/jackc/pgerrcode.
//
// # Usage
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, migrations.Core(), cfg.MigrationsTable, log); err != nil {
//		return err
//	}
//
//	admin := pg.NewAdmin(pool)
//	if err := admin.CreateDatabase(ctx, "tenant_42"); err != nil {
//		return err
//	}
package pg
