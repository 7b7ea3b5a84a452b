package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/courserec"
	"golang.org/x/time/rate"
)

var _ courserec.DomainLimiter = (*DomainLimiter)(nil)

// DefaultRequestsPerSecond is the per-domain request rate used by the scraper.
const DefaultRequestsPerSecond = 1.0

// DomainLimiter throttles requests with one token bucket per host, so a
// catalog site sees at most rps requests per second no matter how many
// course pages are fetched in parallel.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per second
// per domain with the given burst. A burst below 1 is treated as 1.
func NewDomainLimiter(rps float64, burst int) *DomainLimiter {
	if burst < 1 {
		burst = 1
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    burst,
	}
}

// Wait blocks until a request to domain is allowed or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return d.limiter(domain).Wait(ctx)
}

func (d *DomainLimiter) limiter(domain string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()

	l, ok := d.limiters[domain]
	if !ok {
		l = rate.NewLimiter(rate.Limit(d.rps), d.burst)
		d.limiters[domain] = l
	}
	return l
}
