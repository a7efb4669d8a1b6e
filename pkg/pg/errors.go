package pg

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrFailedToOpenDBConnection = errors.New("failed to open db connection")
	ErrEmptyConnectionString    = errors.New("empty postgres connection string, use PG_CONN_URL env var")
	ErrHealthcheckFailed        = errors.New("healthcheck failed, connection is not available")
	ErrFailedToParseDBConfig    = errors.New("failed to parse db config")
	ErrFailedToApplyMigrations  = errors.New("failed to apply migrations")
	ErrInvalidDatabaseName      = errors.New("invalid database name")
	ErrFailedToCreateDatabase   = errors.New("failed to create database")
	ErrFailedToDropDatabase     = errors.New("failed to drop database")
)

// IsNotFoundError reports whether err is pgx.ErrNoRows.
func IsNotFoundError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsDuplicateKeyError reports a unique constraint violation (23505).
func IsDuplicateKeyError(err error) bool {
	return hasCode(err, pgerrcode.UniqueViolation)
}

// IsForeignKeyViolationError reports a referential integrity violation (23503).
func IsForeignKeyViolationError(err error) bool {
	return hasCode(err, pgerrcode.ForeignKeyViolation)
}

// IsDuplicateDatabaseError reports that CREATE DATABASE lost a race (42P04).
func IsDuplicateDatabaseError(err error) bool {
	return hasCode(err, pgerrcode.DuplicateDatabase)
}

// IsUndefinedTableError reports a missing relation (42P01), typically a
// database whose schema was never migrated.
func IsUndefinedTableError(err error) bool {
	return hasCode(err, pgerrcode.UndefinedTable)
}

func hasCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
