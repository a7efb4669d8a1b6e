package tenant

import (
	"net/http"
	"strings"
)

// DefaultHeader carries the tenant id on inbound requests.
const DefaultHeader = "X-TENANT"

// Resolver extracts the tenant id from a request.
// ok is false when the request carries no tenant and should be served in core scope.
type Resolver interface {
	Resolve(r *http.Request) (id ID, ok bool, err error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(r *http.Request) (ID, bool, error)

func (f ResolverFunc) Resolve(r *http.Request) (ID, bool, error) {
	return f(r)
}

// HeaderResolver reads the tenant id from a request header.
type HeaderResolver struct {
	HeaderName string
}

// NewHeaderResolver creates a header resolver. An empty name means DefaultHeader.
func NewHeaderResolver(name string) *HeaderResolver {
	if name == "" {
		name = DefaultHeader
	}
	return &HeaderResolver{HeaderName: name}
}

// Resolve returns ok=false for a missing or blank header and
// ErrInvalidIdentifier when the value is not an integer.
func (h *HeaderResolver) Resolve(r *http.Request) (ID, bool, error) {
	raw := strings.TrimSpace(r.Header.Get(h.HeaderName))
	if raw == "" {
		return 0, false, nil
	}
	id, err := ParseID(raw)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}
