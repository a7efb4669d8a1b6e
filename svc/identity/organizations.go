package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/tenancy/pkg/logger"
	"github.com/dmitrymomot/tenancy/pkg/tenant"
	"github.com/dmitrymomot/tenancy/pkg/validator"
)

// DatabaseProvisioner creates and drops tenant databases.
type DatabaseProvisioner interface {
	EnsureDatabase(ctx context.Context, id tenant.ID) (string, error)
	DropDatabase(ctx context.Context, id tenant.ID) error
}

// HandleEvicter drops cached tenant connections.
type HandleEvicter interface {
	Evict(id tenant.ID) bool
}

// OwnerSyncer copies an owner into a tenant database.
type OwnerSyncer interface {
	SyncOwner(ctx context.Context, orgID tenant.ID, ownerID int64) (*TenantUser, error)
}

const compensationTimeout = 30 * time.Second

// Organizations creates organizations together with their tenant databases.
type Organizations struct {
	orgs        OrganizationStorage
	provisioner DatabaseProvisioner
	handles     HandleEvicter
	owners      OwnerSyncer
	log         *slog.Logger
}

func NewOrganizations(orgs OrganizationStorage, provisioner DatabaseProvisioner, handles HandleEvicter, owners OwnerSyncer, log *slog.Logger) *Organizations {
	if log == nil {
		log = logger.Discard()
	}
	return &Organizations{
		orgs:        orgs,
		provisioner: provisioner,
		handles:     handles,
		owners:      owners,
		log:         log.With(logger.Component("organizations")),
	}
}

// Create inserts the organization, provisions its database and replicates
// the owner into it. If any step after the insert fails, the handle is
// evicted, the database dropped and the row deleted before the original
// error is returned.
func (s *Organizations) Create(ctx context.Context, owner *CoreUser, name string) (*CreatedOrganization, error) {
	if owner == nil || !owner.IsOwner {
		return nil, ErrNotOwner
	}
	name = strings.TrimSpace(name)
	if err := validator.Apply(
		validator.Required("name", name),
		validator.MaxLen("name", name, 255),
	); err != nil {
		return nil, err
	}

	org := &Organization{Name: name, OwnerID: owner.ID}
	if err := s.orgs.CreateOrganization(ctx, org); err != nil {
		return nil, err
	}

	database, err := s.provisioner.EnsureDatabase(ctx, org.ID)
	if err == nil {
		_, err = s.owners.SyncOwner(ctx, org.ID, owner.ID)
	}
	if err != nil {
		s.compensate(ctx, org.ID, err)
		return nil, err
	}

	s.log.InfoContext(ctx, "organization created",
		logger.Event("organization.created"),
		logger.OrganizationID(org.ID.Int64()),
		logger.UserID(owner.ID),
		logger.Database(database),
	)
	return &CreatedOrganization{Organization: org, Database: database}, nil
}

// List returns the organizations owned by ownerID.
func (s *Organizations) List(ctx context.Context, ownerID int64) ([]Organization, error) {
	return s.orgs.ListOrganizationsByOwner(ctx, ownerID)
}

func (s *Organizations) compensate(ctx context.Context, id tenant.ID, cause error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	log := s.log.With(logger.OrganizationID(id.Int64()))
	log.WarnContext(ctx, "organization setup failed, rolling back",
		logger.Event("organization.rollback"), logger.Error(cause))

	s.handles.Evict(id)
	if err := s.provisioner.DropDatabase(ctx, id); err != nil {
		log.ErrorContext(ctx, "rollback: drop tenant database", logger.Error(err))
	}
	if err := s.orgs.DeleteOrganization(ctx, id); err != nil && !errors.Is(err, ErrOrganizationNotFound) {
		log.ErrorContext(ctx, "rollback: delete organization", logger.Error(err))
	}
}
