package crawl

import (
	"context"
	"sync"
	"time"

	"github.com/webkb/webkb"
	"golang.org/x/time/rate"
)

var _ webkb.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter provides per-domain rate limiting using token buckets.
// Each domain gets its own limiter with a burst of 1, so requests to one
// domain are spaced by the configured delay.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a DomainLimiter enforcing the given minimum
// delay between requests to one domain. A zero or negative delay disables
// limiting.
func NewDomainLimiter(delay time.Duration) *DomainLimiter {
	rps := float64(rate.Inf)
	if delay > 0 {
		rps = 1 / delay.Seconds()
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
