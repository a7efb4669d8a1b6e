package tenant

import "sync"

// Scope holds the tenant bound to a single logical unit of work, usually one
// HTTP request. Values are pushed with Set and popped with Reset.
//
// A Scope is safe for concurrent use by goroutines spawned from the same
// request, but it must never be shared between requests.
type Scope struct {
	mu    sync.Mutex
	id    ID
	bound bool
	seq   uint64
	stack []frame
}

type frame struct {
	seq   uint64
	id    ID
	bound bool
}

// Token identifies one Set call so that Reset restores exactly the value that
// was current before it.
type Token struct {
	scope *Scope
	seq   uint64
}

// NewScope returns an empty scope. Get reports no tenant until Set is called.
func NewScope() *Scope {
	return &Scope{}
}

// Get returns the current tenant id and whether one is bound.
func (s *Scope) Get() (ID, bool) {
	if s == nil {
		return 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, s.bound
}

// Set binds id and returns a token restoring the previous value.
func (s *Scope) Set(id ID) Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.stack = append(s.stack, frame{seq: s.seq, id: s.id, bound: s.bound})
	s.id, s.bound = id, true
	return Token{scope: s, seq: s.seq}
}

// Reset restores the value that was current before the Set call that produced
// tok. Tokens that are not the most recent outstanding one for this scope are
// stale: Reset ignores them and returns false.
func (s *Scope) Reset(tok Token) bool {
	if s == nil || tok.scope != s {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.stack)
	if n == 0 || s.stack[n-1].seq != tok.seq {
		return false
	}
	prev := s.stack[n-1]
	s.stack = s.stack[:n-1]
	s.id, s.bound = prev.id, prev.bound
	return true
}
