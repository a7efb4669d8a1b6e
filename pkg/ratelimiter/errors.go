package ratelimiter

import "errors"

var (
	ErrInvalidConfig     = errors.New("invalid rate limiter configuration")
	ErrInvalidTokenCount = errors.New("invalid token count")
	ErrContextCancelled  = errors.New("rate limit check cancelled")
	ErrStoreUnavailable  = errors.New("rate limit store unavailable")
)
