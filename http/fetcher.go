// Package http provides net/http implementations of doccrawl services:
// plain page fetching, sitemap discovery and robots.txt policy.
package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/doccrawl"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout bounds a single request, body included.
const DefaultFetchTimeout = 30 * time.Second

// DefaultUserAgent is sent with every request.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultMaxBodySize caps the number of bytes read from a response.
const DefaultMaxBodySize = 10 << 20

var _ doccrawl.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages with plain HTTP requests. It does not execute
// JavaScript.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
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

// WithMaxBodySize overrides DefaultMaxBodySize. Bytes past the limit are
// silently dropped.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch performs one GET request for url. The body is decoded to UTF-8
// using the declared or sniffed charset.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*doccrawl.RawPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &doccrawl.FetchError{URL: url, Kind: doccrawl.FetchNetwork, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, transportError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &doccrawl.FetchError{URL: url, Kind: doccrawl.FetchHTTPStatus, Status: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, transportError(url, err)
	}
	body, err := decode(raw, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, transportError(url, err)
	}

	return &doccrawl.RawPage{
		URL:    resp.Request.URL.String(),
		Status: resp.StatusCode,
		Body:   body,
	}, nil
}

// decode converts raw to UTF-8 using the declared or sniffed charset. An
// empty body is a valid, empty page.
func decode(raw []byte, contentType string) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	r, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return "", err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Close is a no-op; http.Client needs no cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// transportError classifies err as a timeout or a network failure.
func transportError(url string, err error) *doccrawl.FetchError {
	kind := doccrawl.FetchNetwork
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		kind = doccrawl.FetchTimeout
	}
	return &doccrawl.FetchError{URL: url, Kind: kind, Err: err}
}
