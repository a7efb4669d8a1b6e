package tenantdb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/tenancy/pkg/logger"
	"github.com/dmitrymomot/tenancy/pkg/tenant"
)

// Admin performs database lifecycle statements. *pg.Admin implements it.
type Admin interface {
	DatabaseExists(ctx context.Context, name string) (bool, error)
	CreateDatabase(ctx context.Context, name string) error
	DropDatabase(ctx context.Context, name string) error
}

// Migrator brings a database schema up to date. *pg.Migrator implements it.
type Migrator interface {
	Apply(ctx context.Context, database string) error
}

// Provisioner makes sure the database of a tenant exists and carries the
// tenant schema.
type Provisioner struct {
	admin    Admin
	migrator Migrator
	prefix   string
	log      *slog.Logger
	metrics  *Metrics

	timeout  time.Duration

	group singleflight.Group

	mu    sync.Mutex
	ready map[tenant.ID]struct{}
	gens  map[tenant.ID]uint64 // bumped by DropDatabase; runs started earlier do not commit
}

// ProvisionerOption configures a Provisioner.
type ProvisionerOption func(*Provisioner)

// WithDatabasePrefix overrides the "tenant_" database name prefix.
func WithDatabasePrefix(prefix string) ProvisionerOption {
	return func(p *Provisioner) {
		if prefix != "" {
			p.prefix = prefix
		}
	}
}

// WithProvisionerLogger sets the provisioner logger.
func WithProvisionerLogger(l *slog.Logger) ProvisionerOption {
	return func(p *Provisioner) {
		if l != nil {
			p.log = l
		}
	}
}

// WithProvisionerMetrics attaches metrics collectors.
func WithProvisionerMetrics(m *Metrics) ProvisionerOption {
	return func(p *Provisioner) { p.metrics = m }
}

// WithProvisionTimeout bounds one provisioning run. Defaults to 2 minutes.
func WithProvisionTimeout(d time.Duration) ProvisionerOption {
	return func(p *Provisioner) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// NewProvisioner creates a Provisioner.
func NewProvisioner(admin Admin, migrator Migrator, opts ...ProvisionerOption) *Provisioner {
	p := &Provisioner{
		admin:    admin,
		migrator: migrator,
		prefix:   "tenant_",
		log:      logger.Discard(),
		timeout:  2 * time.Minute,
		ready:    make(map[tenant.ID]struct{}),
		gens:     make(map[tenant.ID]uint64),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With(logger.Component("tenant_provisioner"))
	return p
}

// DatabaseName returns the database name of id, e.g. "tenant_42".
func (p *Provisioner) DatabaseName(id tenant.ID) string {
	return p.prefix + id.String()
}

// EnsureDatabase creates the database of id when it does not exist yet and
// applies the tenant migrations to it. It returns the database name.
//
// Concurrent calls for the same id share one run. The run is detached from
// the caller's cancellation and bounded by the provision timeout; a caller
// whose ctx ends stops waiting with ctx.Err() while the run goes on for the
// others. Once a run succeeds, later calls in this process return
// immediately. Failures are wrapped with ErrProvisioningFailed and are not
// retried here; the next call starts over.
func (p *Provisioner) EnsureDatabase(ctx context.Context, id tenant.ID) (string, error) {
	if id <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidTenantID, id)
	}
	name := p.DatabaseName(id)
	if p.isReady(id) {
		return name, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := p.group.DoChan(name, func() (any, error) {
		ctx, cancel := context.WithTimeout(detached, p.timeout)
		defer cancel()
		return nil, p.provision(ctx, id, name)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return name, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (p *Provisioner) provision(ctx context.Context, id tenant.ID, name string) error {
	p.mu.Lock()
	_, ready := p.ready[id]
	gen := p.gens[id]
	p.mu.Unlock()
	if ready {
		return nil
	}

	start := time.Now()
	log := p.log.With(logger.TenantID(id.Int64()), logger.Database(name))

	fail := func(stage string, err error) error {
		p.metrics.observeProvision(start, resultError)
		log.ErrorContext(ctx, "tenant provisioning failed", "stage", stage, logger.Error(err))
		return errors.Join(ErrProvisioningFailed, fmt.Errorf("%s %s: %w", stage, name, err))
	}

	exists, err := p.admin.DatabaseExists(ctx, name)
	if err != nil {
		return fail("lookup", err)
	}

	result := resultExisted
	if !exists {
		if err := p.admin.CreateDatabase(ctx, name); err != nil {
			return fail("create", err)
		}
		result = resultCreated
	}

	if err := p.migrator.Apply(ctx, name); err != nil {
		return fail("migrate", err)
	}

	p.mu.Lock()
	if p.gens[id] != gen {
		p.mu.Unlock()
		return fail("commit", ErrEvicted)
	}
	p.ready[id] = struct{}{}
	p.mu.Unlock()

	p.metrics.observeProvision(start, result)
	log.InfoContext(ctx, "tenant database ready", "result", result, logger.Duration(time.Since(start)))
	return nil
}

// DropDatabase removes the database of id. Used to roll back an organization
// whose setup did not complete. A provisioning run of id that is still in
// progress does not mark the tenant ready; its callers get
// ErrProvisioningFailed joined with ErrEvicted.
func (p *Provisioner) DropDatabase(ctx context.Context, id tenant.ID) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTenantID, id)
	}
	name := p.DatabaseName(id)

	p.mu.Lock()
	delete(p.ready, id)
	p.gens[id]++
	p.mu.Unlock()
	p.group.Forget(name)

	if err := p.admin.DropDatabase(ctx, name); err != nil {
		return err
	}
	p.log.InfoContext(ctx, "tenant database dropped", logger.TenantID(id.Int64()), logger.Database(name))
	return nil
}

func (p *Provisioner) isReady(id tenant.ID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.ready[id]
	return ok
}
