package ports

import (
	"context"
	"time"
)

// RateLimitRepository stores fixed-window request counters.
type RateLimitRepository interface {
	// IncrementWindow bumps the counter for clientKey in the window containing now
	// and returns the new count together with the window start.
	IncrementWindow(ctx context.Context, clientKey string, window time.Duration, keyPrefix string, ttl time.Duration) (count int, windowStart time.Time, err error)
}

// RateLimitDecision is the outcome of one request against a client's budget.
type RateLimitDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// RetryAfter is the wait until the window resets, rounded up to whole seconds.
func (d RateLimitDecision) RetryAfter(now time.Time) int {
	wait := d.Reset.Sub(now)
	if wait <= 0 {
		return 0
	}
	secs := int(wait / time.Second)
	if wait%time.Second != 0 {
		secs++
	}
	return secs
}

// RateLimiterService decides whether a client may make another catalog request.
// A non-nil error comes with an allowing decision: the limiter fails open.
type RateLimiterService interface {
	Allow(ctx context.Context, clientKey string) (RateLimitDecision, error)
}
