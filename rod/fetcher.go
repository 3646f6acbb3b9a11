// Package rod renders pages in headless Chrome via go-rod.
package rod

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/fwojciec/doccrawl"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Rendering defaults.
const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultSettleDelay  = 300 * time.Millisecond
	DefaultPollInterval = 200 * time.Millisecond
)

var (
	_ doccrawl.Fetcher         = (*Fetcher)(nil)
	_ doccrawl.RenderedFetcher = (*Fetcher)(nil)
)

// serializeJS returns the document HTML with open shadow roots inlined as
// declarative templates, falling back to outerHTML on older browsers.
const serializeJS = `() => {
	const root = document.documentElement;
	if (typeof root.getHTML !== 'function') {
		return root.outerHTML;
	}
	const shadowRoots = [];
	const collect = (node) => {
		node.querySelectorAll('*').forEach((el) => {
			if (el.shadowRoot) {
				shadowRoots.push(el.shadowRoot);
				collect(el.shadowRoot);
			}
		});
	};
	collect(document);
	return '<html>' + root.getHTML({serializableShadowRoots: true, shadowRoots}) + '</html>';
}`

// Fetcher loads pages in a recycled headless browser and returns the DOM
// after scripts ran. Fetcher is safe for concurrent use.
type Fetcher struct {
	manager      *BrowserManager
	timeout      time.Duration
	settleDelay  time.Duration
	pollInterval time.Duration
	closed       atomic.Bool
}

// Option configures a Fetcher.
type Option func(*fetcherConfig)

type fetcherConfig struct {
	timeout      time.Duration
	settleDelay  time.Duration
	pollInterval time.Duration
	managerOpts  []ManagerOption
}

// WithFetchTimeout bounds navigation and page load.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *fetcherConfig) {
		c.timeout = d
	}
}

// WithSettleDelay sets how long to wait after a page became ready before
// taking the final snapshot.
func WithSettleDelay(d time.Duration) Option {
	return func(c *fetcherConfig) {
		c.settleDelay = d
	}
}

// WithBrowserRecycling replaces the browser after n pages.
func WithBrowserRecycling(n int) Option {
	return func(c *fetcherConfig) {
		c.managerOpts = append(c.managerOpts, WithRecycleAfter(n))
	}
}

// NewFetcher launches a headless browser. Close must be called when the
// Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	cfg := fetcherConfig{
		timeout:      DefaultFetchTimeout,
		settleDelay:  DefaultSettleDelay,
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	manager, err := NewBrowserManager(cfg.managerOpts...)
	if err != nil {
		return nil, err
	}

	return &Fetcher{
		manager:      manager,
		timeout:      cfg.timeout,
		settleDelay:  cfg.settleDelay,
		pollInterval: cfg.pollInterval,
	}, nil
}

// Fetch returns the DOM of url once the load event fired.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*doccrawl.RawPage, error) {
	return f.FetchRendered(ctx, url, nil, 0)
}

// FetchRendered returns the DOM of url once ready reports true or maxWait
// elapsed after the load event. A nil ready accepts the first snapshot.
// Status is always 200: the browser does not expose the document response.
func (f *Fetcher) FetchRendered(ctx context.Context, url string, ready doccrawl.ReadinessFunc, maxWait time.Duration) (*doccrawl.RawPage, error) {
	if f.closed.Load() {
		return nil, doccrawl.Errorf(doccrawl.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, fetchError(url, err)
	}

	browser, release, err := f.manager.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fetchError(url, err)
	}
	defer page.Close()

	loading := page.Context(ctx).Timeout(f.timeout)
	if err := loading.Navigate(url); err != nil {
		return nil, fetchError(url, err)
	}
	if err := loading.WaitLoad(); err != nil {
		return nil, fetchError(url, err)
	}

	page = page.Context(ctx)
	html, err := f.waitReady(ctx, page, ready, maxWait)
	if err != nil {
		return nil, fetchError(url, err)
	}

	final := url
	if info, err := page.Info(); err == nil && info.URL != "" {
		final = info.URL
	}

	return &doccrawl.RawPage{URL: final, Status: 200, Body: html}, nil
}

// waitReady polls the serialized DOM until ready accepts it or maxWait
// passes, then lets the page settle and takes a final snapshot.
func (f *Fetcher) waitReady(ctx context.Context, page *rod.Page, ready doccrawl.ReadinessFunc, maxWait time.Duration) (string, error) {
	deadline := time.Now().Add(maxWait)
	for {
		html, err := serialize(page)
		if err != nil {
			return "", err
		}
		if ready == nil {
			return html, nil
		}
		if ready(html) || !time.Now().Before(deadline) {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.pollInterval):
		}
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(f.settleDelay):
	}
	return serialize(page)
}

func serialize(page *rod.Page) (string, error) {
	res, err := page.Eval(serializeJS)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the current browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

func fetchError(url string, err error) *doccrawl.FetchError {
	kind := doccrawl.FetchNetwork
	if errors.Is(err, context.DeadlineExceeded) {
		kind = doccrawl.FetchTimeout
	}
	return &doccrawl.FetchError{URL: url, Kind: kind, Err: err}
}
