package tenantdb

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/tenancy/pkg/logger"
	"github.com/dmitrymomot/tenancy/pkg/tenant"
)

// Registry caches one Handle per tenant for the lifetime of the process.
//
// The first Get for a tenant opens its handle through the Opener; concurrent
// first calls for the same tenant share a single open and receive the same
// handle. Failed opens are not cached. Opens for different tenants proceed
// independently.
type Registry struct {
	core        Handle
	opener      Opener
	openTimeout time.Duration
	log         *slog.Logger
	metrics     *Metrics

	mu      sync.RWMutex
	handles map[tenant.ID]Handle
	gens    map[tenant.ID]uint64 // bumped by Evict; opens started earlier are discarded
	closed  bool

	group singleflight.Group
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithOpenTimeout bounds a single open. Defaults to 30 seconds.
func WithOpenTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.openTimeout = d
		}
	}
}

// WithRegistryLogger sets the registry logger.
func WithRegistryLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// WithRegistryMetrics attaches metrics collectors.
func WithRegistryMetrics(m *Metrics) RegistryOption {
	return func(r *Registry) { r.metrics = m }
}

// NewRegistry creates a registry around the core handle. The registry does
// not own core; the caller closes it after closing the registry.
func NewRegistry(core Handle, opener Opener, opts ...RegistryOption) *Registry {
	r := &Registry{
		core:        core,
		opener:      opener,
		openTimeout: 30 * time.Second,
		log:         logger.Discard(),
		handles:     make(map[tenant.ID]Handle),
		gens:        make(map[tenant.ID]uint64),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With(logger.Component("tenant_registry"))
	return r
}

// Core returns the handle of the core database.
func (r *Registry) Core() Handle {
	return r.core
}

// Get returns the handle for id, opening it on first use.
//
// The open runs detached from ctx cancellation (bounded by the open timeout),
// so a caller that gives up does not fail the open for other waiters; it just
// stops waiting and gets ctx.Err().
func (r *Registry) Get(ctx context.Context, id tenant.ID) (Handle, error) {
	h, ok, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	if ok {
		return h, nil
	}

	ch := r.group.DoChan(id.String(), func() (any, error) {
		return r.open(context.WithoutCancel(ctx), id)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Handle), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Registry) open(ctx context.Context, id tenant.ID) (Handle, error) {
	// Another flight may have finished between lookup and DoChan.
	r.mu.RLock()
	h, ok := r.handles[id]
	gen, closed := r.gens[id], r.closed
	r.mu.RUnlock()
	if closed {
		return nil, ErrRegistryClosed
	}
	if ok {
		return h, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.openTimeout)
	defer cancel()

	start := time.Now()
	h, err := r.opener.Open(ctx, id)
	if err != nil {
		r.metrics.observeOpen(start, err, 0)
		r.log.WarnContext(ctx, "failed to open tenant handle",
			logger.TenantID(id.Int64()), logger.Error(err))
		return nil, err
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		h.Close()
		return nil, ErrRegistryClosed
	}
	if r.gens[id] != gen {
		r.mu.Unlock()
		h.Close()
		r.metrics.observeOpen(start, ErrEvicted, 0)
		r.log.InfoContext(ctx, "discarded handle of evicted tenant", logger.TenantID(id.Int64()))
		return nil, fmt.Errorf("%w: %d", ErrEvicted, id)
	}
	r.handles[id] = h
	cached := len(r.handles)
	r.mu.Unlock()

	r.metrics.observeOpen(start, nil, cached)
	r.log.InfoContext(ctx, "tenant handle opened",
		logger.TenantID(id.Int64()), logger.Duration(time.Since(start)))
	return h, nil
}

func (r *Registry) lookup(id tenant.ID) (Handle, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, false, ErrRegistryClosed
	}
	h, ok := r.handles[id]
	return h, ok, nil
}

// Evict removes and closes the cached handle of id, if any. An open of id
// that is still running is not cached when it completes; its waiters get
// ErrEvicted. The result reports whether a cached handle was closed.
func (r *Registry) Evict(id tenant.ID) bool {
	r.mu.Lock()
	h, ok := r.handles[id]
	delete(r.handles, id)
	r.gens[id]++
	n := len(r.handles)
	r.mu.Unlock()

	r.group.Forget(id.String())
	if !ok {
		return false
	}
	h.Close()
	r.metrics.setHandles(n)
	return true
}

// Len returns the number of cached tenant handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handles)
}

// Warm opens handles for ids with at most concurrency opens in flight.
// It stops at the first error.
func (r *Registry) Warm(ctx context.Context, ids []tenant.ID, concurrency int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))
	for _, id := range ids {
		g.Go(func() error {
			_, err := r.Get(ctx, id)
			return err
		})
	}
	return g.Wait()
}

// Close closes every tenant handle. Subsequent Get calls fail with
// ErrRegistryClosed. The core handle is left open.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	handles := r.handles
	r.handles = make(map[tenant.ID]Handle)
	r.mu.Unlock()

	var g errgroup.Group
	g.SetLimit(8)
	for _, h := range handles {
		g.Go(func() error {
			h.Close()
			return nil
		})
	}
	_ = g.Wait()
	r.metrics.setHandles(0)
}
