// Package ratelimiter implements token bucket rate limiting over a pluggable
// Store: MemoryStore for a single process, RedisStore for a fleet.
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//	    Capacity: 5, RefillRate: 1, RefillInterval: time.Minute,
//	})
//	res, err := limiter.Allow(ctx, ratelimiter.Key("login", "core", email))
//	if !res.Allowed() { /* 429, Retry-After: res.RetryAfterSeconds() */ }
//
// Middleware wraps the same check for whole routes keyed by a KeyFunc.
package ratelimiter
