package mock

import (
	"context"
	"time"

	"github.com/fwojciec/doccrawl"
)

var _ doccrawl.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of doccrawl.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*doccrawl.RawPage, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*doccrawl.RawPage, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ doccrawl.RenderedFetcher = (*RenderedFetcher)(nil)

// RenderedFetcher is a mock implementation of doccrawl.RenderedFetcher.
type RenderedFetcher struct {
	FetchRenderedFn func(ctx context.Context, url string, ready doccrawl.ReadinessFunc, maxWait time.Duration) (*doccrawl.RawPage, error)
	CloseFn         func() error
}

func (f *RenderedFetcher) FetchRendered(ctx context.Context, url string, ready doccrawl.ReadinessFunc, maxWait time.Duration) (*doccrawl.RawPage, error) {
	return f.FetchRenderedFn(ctx, url, ready, maxWait)
}

func (f *RenderedFetcher) Close() error {
	return f.CloseFn()
}

var _ doccrawl.RobotsPolicy = (*RobotsPolicy)(nil)

// RobotsPolicy is a mock implementation of doccrawl.RobotsPolicy.
type RobotsPolicy struct {
	AllowedFn func(ctx context.Context, url string) bool
}

func (p *RobotsPolicy) Allowed(ctx context.Context, url string) bool {
	return p.AllowedFn(ctx, url)
}
