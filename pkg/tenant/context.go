package tenant

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// WithScope attaches s to ctx.
func WithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// ScopeFromContext returns the scope attached to ctx, if any.
func ScopeFromContext(ctx context.Context) (*Scope, bool) {
	s, ok := ctx.Value(contextKey{}).(*Scope)
	return s, ok && s != nil
}

// WithID returns a context bound to id through a fresh scope. Use it for work
// that runs outside the HTTP middleware, such as provisioning jobs.
func WithID(ctx context.Context, id ID) context.Context {
	s := NewScope()
	s.Set(id)
	return WithScope(ctx, s)
}

// IDFromContext returns the tenant currently bound to ctx.
// The second result is false for core-scoped work.
func IDFromContext(ctx context.Context) (ID, bool) {
	s, ok := ScopeFromContext(ctx)
	if !ok {
		return 0, false
	}
	return s.Get()
}

// MustIDFromContext panics when ctx is not tenant scoped.
func MustIDFromContext(ctx context.Context) ID {
	id, ok := IDFromContext(ctx)
	if !ok {
		panic("tenant: no tenant in context")
	}
	return id
}

// LoggerExtractor returns a logger context extractor adding "tenant_id".
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := IDFromContext(ctx); ok {
			return slog.Int64("tenant_id", id.Int64()), true
		}
		return slog.Attr{}, false
	}
}
