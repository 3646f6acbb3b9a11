// Package colly implements doccrawl.Fetcher on top of gocolly/colly.
package colly

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/fwojciec/doccrawl"
	"github.com/gocolly/colly/v2"
)

// Defaults match the net/http backend.
const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultMaxBodySize  = 10 << 20
)

var _ doccrawl.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages with a colly collector. Link following, caching
// and robots handling are left to the crawl controller: each Fetch visits
// exactly one URL.
type Fetcher struct {
	timeout     time.Duration
	userAgent   string
	maxBodySize int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a colly-backed Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// collector returns a synchronous single-use collector bound to ctx.
func (f *Fetcher) collector(ctx context.Context) *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(f.userAgent),
		colly.MaxBodySize(f.maxBodySize),
		colly.ParseHTTPErrorResponse(),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(f.timeout)
	return c
}

// Fetch visits url once. Colly decodes the body to UTF-8.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*doccrawl.RawPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, &doccrawl.FetchError{URL: url, Kind: doccrawl.FetchNetwork, Err: err}
	}

	var page *doccrawl.RawPage
	c := f.collector(ctx)
	c.OnResponse(func(r *colly.Response) {
		page = &doccrawl.RawPage{
			URL:    r.Request.URL.String(),
			Status: r.StatusCode,
			Body:   string(r.Body),
		}
	})

	if err := c.Visit(url); err != nil {
		return nil, transportError(url, err)
	}
	if page == nil {
		return nil, &doccrawl.FetchError{URL: url, Kind: doccrawl.FetchNetwork, Err: errors.New("no response")}
	}
	if page.Status < 200 || page.Status > 299 {
		return nil, &doccrawl.FetchError{URL: url, Kind: doccrawl.FetchHTTPStatus, Status: page.Status}
	}
	return page, nil
}

// Close is a no-op; collectors are per request.
func (f *Fetcher) Close() error {
	return nil
}

func transportError(url string, err error) *doccrawl.FetchError {
	kind := doccrawl.FetchNetwork
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		kind = doccrawl.FetchTimeout
	}
	return &doccrawl.FetchError{URL: url, Kind: kind, Err: err}
}
