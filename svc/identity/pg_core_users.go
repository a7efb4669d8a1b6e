package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/tenancy/pkg/auth"
	"github.com/dmitrymomot/tenancy/pkg/pg"
)

const coreUserColumns = `id, email, password_hash, is_verified, is_owner,
	verification_token, verification_token_created_at, created_at`

// CoreUserStore implements CoreUserStorage over the core database.
type CoreUserStore struct {
	db pg.DB
}

func NewCoreUserStore(db pg.DB) *CoreUserStore {
	return &CoreUserStore{db: db}
}

// CreateCoreUser inserts u and fills in its ID and CreatedAt.
func (s *CoreUserStore) CreateCoreUser(ctx context.Context, u *CoreUser) error {
	query := `
		INSERT INTO core_users (
			email, password_hash, is_verified, is_owner,
			verification_token, verification_token_created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := s.db.QueryRow(ctx, query,
		u.Email,
		u.PasswordHash,
		u.IsVerified,
		u.IsOwner,
		u.VerificationToken,
		u.VerificationTokenCreatedAt,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return auth.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to create core user: %w", err)
	}
	return nil
}

func (s *CoreUserStore) GetCoreUserByID(ctx context.Context, id int64) (*CoreUser, error) {
	return s.getOne(ctx, auth.ErrUserNotFound,
		`SELECT `+coreUserColumns+` FROM core_users WHERE id = $1`, id)
}

func (s *CoreUserStore) GetCoreUserByEmail(ctx context.Context, email string) (*CoreUser, error) {
	return s.getOne(ctx, auth.ErrUserNotFound,
		`SELECT `+coreUserColumns+` FROM core_users WHERE email = $1`, email)
}

func (s *CoreUserStore) GetCoreUserByVerificationToken(ctx context.Context, token string) (*CoreUser, error) {
	return s.getOne(ctx, auth.ErrTokenNotFound,
		`SELECT `+coreUserColumns+` FROM core_users WHERE verification_token = $1`, token)
}

// MarkCoreUserVerified sets is_verified and clears the verification token.
func (s *CoreUserStore) MarkCoreUserVerified(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE core_users
		SET is_verified = TRUE, verification_token = NULL, verification_token_created_at = NULL
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to verify core user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

func (s *CoreUserStore) getOne(ctx context.Context, notFound error, query string, arg any) (*CoreUser, error) {
	u, err := scanCoreUser(s.db.QueryRow(ctx, query, arg))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, notFound
		}
		return nil, fmt.Errorf("failed to get core user: %w", err)
	}
	return u, nil
}

func scanCoreUser(row pgx.Row) (*CoreUser, error) {
	var (
		u         CoreUser
		token     *string
		tokenTime *time.Time
	)
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.IsVerified,
		&u.IsOwner,
		&token,
		&tokenTime,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	u.VerificationToken = token
	u.VerificationTokenCreatedAt = tokenTime
	return &u, nil
}
