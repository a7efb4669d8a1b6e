package identity

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/tenancy/pkg/auth"
	"github.com/dmitrymomot/tenancy/pkg/pg"
	"github.com/dmitrymomot/tenancy/pkg/tenant"
)

// OrganizationStore implements OrganizationStorage over the core database.
// It also satisfies tenantdb.OrganizationLookup.
type OrganizationStore struct {
	db pg.DB
}

func NewOrganizationStore(db pg.DB) *OrganizationStore {
	return &OrganizationStore{db: db}
}

func (s *OrganizationStore) CreateOrganization(ctx context.Context, o *Organization) error {
	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO organizations (name, owner_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, o.Name, o.OwnerID).Scan(&id, &o.CreatedAt)
	if err != nil {
		if pg.IsForeignKeyViolationError(err) {
			return auth.ErrUserNotFound
		}
		return fmt.Errorf("failed to create organization: %w", err)
	}
	o.ID = tenant.ID(id)
	return nil
}

func (s *OrganizationStore) GetOrganization(ctx context.Context, id tenant.ID) (*Organization, error) {
	var (
		o     Organization
		orgID int64
	)
	err := s.db.QueryRow(ctx, `
		SELECT id, name, owner_id, created_at FROM organizations WHERE id = $1
	`, id.Int64()).Scan(&orgID, &o.Name, &o.OwnerID, &o.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	o.ID = tenant.ID(orgID)
	return &o, nil
}

func (s *OrganizationStore) OrganizationExists(ctx context.Context, id tenant.ID) (bool, error) {
	var exists bool
	if err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM organizations WHERE id = $1)`, id.Int64(),
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check organization: %w", err)
	}
	return exists, nil
}

func (s *OrganizationStore) ListOrganizationsByOwner(ctx context.Context, ownerID int64) ([]Organization, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, owner_id, created_at
		FROM organizations
		WHERE owner_id = $1
		ORDER BY id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	orgs := []Organization{}
	for rows.Next() {
		var (
			o  Organization
			id int64
		)
		if err := rows.Scan(&id, &o.Name, &o.OwnerID, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		o.ID = tenant.ID(id)
		orgs = append(orgs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return orgs, nil
}

// ListOrganizationIDs returns every tenant id, for warming the registry.
func (s *OrganizationStore) ListOrganizationIDs(ctx context.Context) ([]tenant.ID, error) {
	rows, err := s.db.Query(ctx, `SELECT id FROM organizations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list organization ids: %w", err)
	}
	defer rows.Close()

	var ids []tenant.ID
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan organization id: %w", err)
		}
		ids = append(ids, tenant.ID(id))
	}
	return ids, rows.Err()
}

func (s *OrganizationStore) DeleteOrganization(ctx context.Context, id tenant.ID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, id.Int64())
	if err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrganizationNotFound
	}
	return nil
}
