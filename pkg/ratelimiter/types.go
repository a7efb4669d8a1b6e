package ratelimiter

import (
	"math"
	"time"
)

// Result of a rate limit check.
type Result struct {
	Limit     int       // bucket capacity
	Remaining int       // negative when the request was denied
	ResetAt   time.Time // next refill
	now       func() time.Time
}

func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter is how long to wait before the next request; 0 if allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	now := time.Now
	if r.now != nil {
		now = r.now
	}
	return max(0, r.ResetAt.Sub(now()))
}

// RetryAfterSeconds rounds RetryAfter up to whole seconds, minimum 1 when denied.
func (r *Result) RetryAfterSeconds() int {
	if r.Allowed() {
		return 0
	}
	return max(1, int(math.Ceil(r.RetryAfter().Seconds())))
}

// Config defines the token bucket.
type Config struct {
	Capacity       int           `env:"CAPACITY" envDefault:"5"`
	RefillRate     int           `env:"REFILL" envDefault:"1"`
	RefillInterval time.Duration `env:"INTERVAL" envDefault:"1m"`
}
