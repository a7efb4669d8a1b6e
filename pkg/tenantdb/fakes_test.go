package tenantdb_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/tenancy/pkg/tenant"
	"github.com/dmitrymomot/tenancy/pkg/tenantdb"
)

type fakeHandle struct {
	name   string
	closed atomic.Int32
}

func (h *fakeHandle) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (h *fakeHandle) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (h *fakeHandle) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func (h *fakeHandle) Close() { h.closed.Add(1) }

// countingOpener opens fakeHandles and counts calls per tenant.
type countingOpener struct {
	mu    sync.Mutex
	calls map[tenant.ID]int
	fail  map[tenant.ID]error
	gate  chan struct{} // when set, Open blocks until it is closed
}

func newCountingOpener() *countingOpener {
	return &countingOpener{calls: map[tenant.ID]int{}, fail: map[tenant.ID]error{}}
}

func (o *countingOpener) Open(ctx context.Context, id tenant.ID) (tenantdb.Handle, error) {
	o.mu.Lock()
	o.calls[id]++
	err := o.fail[id]
	gate := o.gate
	o.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return &fakeHandle{name: "tenant_" + id.String()}, nil
}

func (o *countingOpener) Calls(id tenant.ID) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls[id]
}

func (o *countingOpener) SetFail(id tenant.ID, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err == nil {
		delete(o.fail, id)
		return
	}
	o.fail[id] = err
}

// fakeServer implements Admin and Migrator in memory.
type fakeServer struct {
	mu         sync.Mutex
	databases  map[string]bool
	creates    map[string]int
	migrations map[string]int
	existsErr  error
	createErr  error
	migrateErr error

	// When set, Apply reports the database on applied and then blocks on
	// applyGate after the migration has been recorded.
	applied   chan string
	applyGate chan struct{}
}

func newFakeServer(existing ...string) *fakeServer {
	s := &fakeServer{databases: map[string]bool{}, creates: map[string]int{}, migrations: map[string]int{}}
	for _, name := range existing {
		s.databases[name] = true
	}
	return s
}

func (s *fakeServer) DatabaseExists(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.existsErr != nil {
		return false, s.existsErr
	}
	return s.databases[name], nil
}

func (s *fakeServer) CreateDatabase(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.creates[name]++
	s.databases[name] = true
	return nil
}

func (s *fakeServer) DropDatabase(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.databases, name)
	return nil
}

func (s *fakeServer) Apply(ctx context.Context, name string) error {
	s.mu.Lock()
	if s.migrateErr != nil {
		s.mu.Unlock()
		return s.migrateErr
	}
	if !s.databases[name] {
		s.mu.Unlock()
		return errors.New("database does not exist: " + name)
	}
	s.migrations[name]++
	applied, gate := s.applied, s.applyGate
	s.mu.Unlock()

	if applied != nil {
		applied <- name
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (s *fakeServer) gateApply() (applied chan string, release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = make(chan string, 16)
	s.applyGate = make(chan struct{})
	gate := s.applyGate
	return s.applied, func() { close(gate) }
}

func (s *fakeServer) counts(name string) (creates, migrations int, exists bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creates[name], s.migrations[name], s.databases[name]
}

func (s *fakeServer) setErrors(exists, create, migrate error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.existsErr, s.createErr, s.migrateErr = exists, create, migrate
}
