package utils

import (
	"context"

	"golang.org/x/time/rate"
)

// Throttle spaces out calls to an external service with a token bucket.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle allows perSecond calls per second with the given burst.
// A non-positive perSecond disables throttling.
func NewThrottle(perSecond float64, burst int) *Throttle {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	return &Throttle{limiter: rate.NewLimiter(limit, burst)}
}

// Wait blocks until the next call is allowed or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}
