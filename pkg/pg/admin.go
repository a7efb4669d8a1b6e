package pg

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
)

var databaseNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// Admin runs server-level statements (database lifecycle) through a connection
// to the core database.
type Admin struct {
	db DB
}

// NewAdmin creates an Admin. The role behind db needs CREATEDB.
func NewAdmin(db DB) *Admin {
	return &Admin{db: db}
}

// ValidateDatabaseName accepts lower-case identifiers of at most 63 bytes.
func ValidateDatabaseName(name string) error {
	if !databaseNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidDatabaseName, name)
	}
	return nil
}

// DatabaseExists reports whether a database with the given name exists.
func (a *Admin) DatabaseExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := a.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check database %s: %w", name, err)
	}
	return exists, nil
}

// CreateDatabase issues CREATE DATABASE. A concurrent creation of the same
// database by another process is reported as success.
func (a *Admin) CreateDatabase(ctx context.Context, name string) error {
	if err := ValidateDatabaseName(name); err != nil {
		return err
	}
	// CREATE DATABASE cannot take bind parameters.
	_, err := a.db.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{name}.Sanitize())
	if err != nil && !IsDuplicateDatabaseError(err) {
		return errors.Join(ErrFailedToCreateDatabase, err)
	}
	return nil
}

// DropDatabase drops the database if it exists, terminating open sessions.
func (a *Admin) DropDatabase(ctx context.Context, name string) error {
	if err := ValidateDatabaseName(name); err != nil {
		return err
	}
	_, err := a.db.Exec(ctx, "DROP DATABASE IF EXISTS "+pgx.Identifier{name}.Sanitize()+" WITH (FORCE)")
	if err != nil {
		return errors.Join(ErrFailedToDropDatabase, err)
	}
	return nil
}
