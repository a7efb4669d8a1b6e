package identity_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dmitrymomot/tenancy/pkg/auth"
	"github.com/dmitrymomot/tenancy/pkg/email"
	"github.com/dmitrymomot/tenancy/pkg/tenant"
	"github.com/dmitrymomot/tenancy/pkg/tenantdb"
	"github.com/dmitrymomot/tenancy/svc/identity"
)

type memCoreUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*identity.CoreUser
}

func newMemCoreUsers() *memCoreUsers {
	return &memCoreUsers{byID: map[int64]*identity.CoreUser{}}
}

func (s *memCoreUsers) CreateCoreUser(_ context.Context, u *identity.CoreUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.Email == u.Email {
			return auth.ErrEmailAlreadyExists
		}
	}
	s.nextID++
	u.ID = s.nextID
	u.CreatedAt = time.Now()
	cp := *u
	s.byID[u.ID] = &cp
	return nil
}

func (s *memCoreUsers) GetCoreUserByID(_ context.Context, id int64) (*identity.CoreUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memCoreUsers) GetCoreUserByEmail(_ context.Context, email string) (*identity.CoreUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (s *memCoreUsers) GetCoreUserByVerificationToken(_ context.Context, token string) (*identity.CoreUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.VerificationToken != nil && *u.VerificationToken == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, auth.ErrTokenNotFound
}

func (s *memCoreUsers) MarkCoreUserVerified(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return auth.ErrUserNotFound
	}
	u.IsVerified = true
	u.VerificationToken = nil
	u.VerificationTokenCreatedAt = nil
	return nil
}

// setVerified flips the flag without clearing the token, as an out-of-band
// verification would.
func (s *memCoreUsers) setVerified(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[id].IsVerified = true
}

type memOrgs struct {
	mu      sync.Mutex
	nextID  int64
	byID    map[tenant.ID]*identity.Organization
	deleted []tenant.ID
}

func newMemOrgs() *memOrgs {
	return &memOrgs{byID: map[tenant.ID]*identity.Organization{}}
}

func (s *memOrgs) CreateOrganization(_ context.Context, o *identity.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	o.ID = tenant.ID(s.nextID)
	o.CreatedAt = time.Now()
	cp := *o
	s.byID[o.ID] = &cp
	return nil
}

func (s *memOrgs) GetOrganization(_ context.Context, id tenant.ID) (*identity.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.byID[id]
	if !ok {
		return nil, identity.ErrOrganizationNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *memOrgs) OrganizationExists(_ context.Context, id tenant.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byID[id]
	return ok, nil
}

func (s *memOrgs) ListOrganizationsByOwner(_ context.Context, ownerID int64) ([]identity.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []identity.Organization{}
	for _, o := range s.byID {
		if o.OwnerID == ownerID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memOrgs) ListOrganizationIDs(_ context.Context) ([]tenant.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]tenant.ID, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *memOrgs) DeleteOrganization(_ context.Context, id tenant.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return identity.ErrOrganizationNotFound
	}
	delete(s.byID, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type memTenantUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*identity.TenantUser
}

func newMemTenantUsers() *memTenantUsers {
	return &memTenantUsers{byID: map[int64]*identity.TenantUser{}}
}

func (s *memTenantUsers) CreateTenantUser(_ context.Context, u *identity.TenantUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.Email == u.Email {
			return auth.ErrEmailAlreadyExists
		}
	}
	s.nextID++
	u.ID = s.nextID
	u.CreatedAt = time.Now()
	cp := *u
	s.byID[u.ID] = &cp
	return nil
}

func (s *memTenantUsers) GetTenantUserByID(_ context.Context, id int64) (*identity.TenantUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memTenantUsers) GetTenantUserByEmail(_ context.Context, email string) (*identity.TenantUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (s *memTenantUsers) UpdateTenantUser(_ context.Context, u *identity.TenantUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[u.ID]; !ok {
		return auth.ErrUserNotFound
	}
	for id, existing := range s.byID {
		if id != u.ID && existing.Email == u.Email {
			return auth.ErrEmailAlreadyExists
		}
	}
	cp := *u
	s.byID[u.ID] = &cp
	return nil
}

func (s *memTenantUsers) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// memTenants keeps one memTenantUsers per tenant and routes like
// RoutedTenantUsers: by the tenant bound to ctx.
type memTenants struct {
	mu    sync.Mutex
	dbs   map[tenant.ID]*memTenantUsers
	fail  error
	kinds []tenantdb.Kind
}

func newMemTenants() *memTenants {
	return &memTenants{dbs: map[tenant.ID]*memTenantUsers{}}
}

func (s *memTenants) db(id tenant.ID) *memTenantUsers {
	s.mu.Lock()
	defer s.mu.Unlock()
	db, ok := s.dbs[id]
	if !ok {
		db = newMemTenantUsers()
		s.dbs[id] = db
	}
	return db
}

func (s *memTenants) Current(ctx context.Context, kind tenantdb.Kind) (identity.TenantUserStorage, error) {
	s.mu.Lock()
	s.kinds = append(s.kinds, kind)
	fail := s.fail
	s.mu.Unlock()
	if fail != nil {
		return nil, fail
	}
	id, ok := tenant.IDFromContext(ctx)
	if !ok {
		return nil, errors.New("tenant users routed to core database")
	}
	return s.db(id), nil
}

func (s *memTenants) For(ctx context.Context, id tenant.ID) (identity.TenantUserStorage, error) {
	return s.Current(tenant.WithID(ctx, id), tenantdb.Write)
}

type fakeProvisioner struct {
	mu          sync.Mutex
	ensureErr   error
	dropped     []tenant.ID
	provisioned []tenant.ID
}

func (p *fakeProvisioner) EnsureDatabase(_ context.Context, id tenant.ID) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ensureErr != nil {
		return "", p.ensureErr
	}
	p.provisioned = append(p.provisioned, id)
	return "tenant_" + id.String(), nil
}

func (p *fakeProvisioner) DropDatabase(_ context.Context, id tenant.ID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dropped = append(p.dropped, id)
	return nil
}

type fakeEvicter struct {
	mu      sync.Mutex
	evicted []tenant.ID
}

func (e *fakeEvicter) Evict(id tenant.ID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.evicted = append(e.evicted, id)
	return true
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []email.SendEmailParams
	err  error
}

func (m *recordingMailer) SendEmail(_ context.Context, p email.SendEmailParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, p)
	return nil
}
