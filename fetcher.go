package doccrawl

import (
	"context"
	"fmt"
	"time"
)

// RawPage is the undecoded result of retrieving a URL.
type RawPage struct {
	// URL is the final URL after redirects.
	URL    string
	Status int
	Body   string
}

// Fetcher retrieves pages without executing scripts.
type Fetcher interface {
	// Fetch performs a single retrieval attempt. Failures are returned as
	// *FetchError. The context controls cancellation; the implementation
	// enforces its own per-request timeout.
	Fetch(ctx context.Context, url string) (*RawPage, error)

	// Close releases resources held by the fetcher.
	Close() error
}

// ReadinessFunc reports whether rendered HTML shows the page's content.
type ReadinessFunc func(html string) bool

// RenderedFetcher retrieves pages after executing their scripts.
type RenderedFetcher interface {
	// FetchRendered loads url in a browser and returns the DOM once ready
	// reports true or maxWait has passed, whichever comes first. A page
	// that never becomes ready is still returned.
	FetchRendered(ctx context.Context, url string, ready ReadinessFunc, maxWait time.Duration) (*RawPage, error)

	// Close releases browser resources.
	Close() error
}

// FetchErrorKind classifies fetch failures.
type FetchErrorKind string

// Fetch failure kinds.
const (
	FetchTimeout    FetchErrorKind = "timeout"
	FetchNetwork    FetchErrorKind = "network"
	FetchHTTPStatus FetchErrorKind = "http_status"
)

// FetchError describes why a URL could not be retrieved.
type FetchError struct {
	URL    string
	Kind   FetchErrorKind
	Status int // set for FetchHTTPStatus
	Err    error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchHTTPStatus:
		return fmt.Sprintf("HTTP %d for %s", e.Status, e.URL)
	case FetchTimeout:
		return fmt.Sprintf("timeout fetching %s", e.URL)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	}
	return "fetching " + e.URL
}

func (e *FetchError) Unwrap() error { return e.Err }

// RobotsPolicy decides whether robots.txt allows fetching a URL.
type RobotsPolicy interface {
	Allowed(ctx context.Context, url string) bool
}
