package crawl

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/doccrawl"
	"golang.org/x/time/rate"
)

var _ doccrawl.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces out requests to each host by a fixed delay. One
// limiter is shared by all workers of a crawl, so the request rate a host
// sees does not grow with the worker count. Hosts are limited
// independently and compared case-insensitively.
type DomainLimiter struct {
	delay time.Duration

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

// NewDomainLimiter returns a DomainLimiter allowing one request per delay
// to each host. The first request to a host never waits. A zero delay
// disables limiting.
func NewDomainLimiter(delay time.Duration) *DomainLimiter {
	return &DomainLimiter{
		delay: delay,
		hosts: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until a request to host is allowed or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	if d.delay <= 0 {
		return ctx.Err()
	}
	return d.limiter(host).Wait(ctx)
}

func (d *DomainLimiter) limiter(host string) *rate.Limiter {
	host = strings.ToLower(host)

	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.hosts[host]
	if !ok {
		l = rate.NewLimiter(rate.Every(d.delay), 1)
		d.hosts[host] = l
	}
	return l
}
