package identity

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/tenancy/pkg/auth"
	"github.com/dmitrymomot/tenancy/pkg/pg"
)

// TenantUserStore implements TenantUserStorage over one tenant database.
type TenantUserStore struct {
	db pg.DB
}

func NewTenantUserStore(db pg.DB) *TenantUserStore {
	return &TenantUserStore{db: db}
}

func (s *TenantUserStore) CreateTenantUser(ctx context.Context, u *TenantUser) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO tenant_users (email, password_hash, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, u.Email, u.PasswordHash, u.IsActive).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return auth.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to create tenant user: %w", err)
	}
	return nil
}

func (s *TenantUserStore) GetTenantUserByID(ctx context.Context, id int64) (*TenantUser, error) {
	return s.getOne(ctx, `
		SELECT id, email, password_hash, is_active, created_at FROM tenant_users WHERE id = $1
	`, id)
}

func (s *TenantUserStore) GetTenantUserByEmail(ctx context.Context, email string) (*TenantUser, error) {
	return s.getOne(ctx, `
		SELECT id, email, password_hash, is_active, created_at FROM tenant_users WHERE email = $1
	`, email)
}

// UpdateTenantUser saves email, password hash and active flag.
func (s *TenantUserStore) UpdateTenantUser(ctx context.Context, u *TenantUser) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE tenant_users SET email = $2, password_hash = $3, is_active = $4 WHERE id = $1
	`, u.ID, u.Email, u.PasswordHash, u.IsActive)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return auth.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to update tenant user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

func (s *TenantUserStore) getOne(ctx context.Context, query string, arg any) (*TenantUser, error) {
	var u TenantUser
	err := s.db.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get tenant user: %w", err)
	}
	return &u, nil
}
