// Package crawl provides documentation crawling orchestration.
// It coordinates fetching, extraction and link discovery of documentation
// pages, starting from a seed URL and following links within a scope.
package crawl

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/fwojciec/doccrawl"
	"golang.org/x/sync/errgroup"
)

// Frontier configuration.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the Bloom filter false positive rate.
	frontierFalsePositiveRate = 0.01
)

// Defaults for optional Crawler fields.
const (
	DefaultConcurrency  = 1
	DefaultDrainTimeout = 5 * time.Second
	DefaultRenderWait   = 10 * time.Second
)

// Crawler walks a documentation site and extracts the content of its pages.
// A Crawler holds no state between calls to Crawl.
type Crawler struct {
	Fetcher   doccrawl.Fetcher
	Extractor doccrawl.Extractor
	Links     doccrawl.LinkDiscoverer

	// Renderer, if set, re-fetches pages whose plain HTML yields no
	// content, with scripts executed.
	Renderer doccrawl.RenderedFetcher
	// Ready decides when a rendered page is ready. Nil waits RenderWait.
	Ready      doccrawl.ReadinessFunc
	RenderWait time.Duration

	// Robots, if set, is consulted before every fetch.
	Robots doccrawl.RobotsPolicy

	// RateLimiter defaults to a DomainLimiter built from CrawlConfig.Delay.
	RateLimiter doccrawl.DomainLimiter

	// Concurrency is the number of pages processed at the same time.
	// With one worker, visiting a page and queuing its links happen in
	// strict order.
	Concurrency int

	// DrainTimeout bounds how long in-flight pages are awaited after the
	// context is canceled.
	DrainTimeout time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// ProgressEvent reports progress during a crawl operation.
type ProgressEvent struct {
	Type  ProgressType
	URL   string
	Depth int

	// Visited is the number of pages processed so far.
	Visited int
	// Queued is the number of URLs waiting in the frontier.
	Queued int

	// Document is set for ProgressCompleted.
	Document *doccrawl.Document
	Error    error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressEmpty
	ProgressFailed
	ProgressSkipped
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress. It is called from
// a single goroutine.
type ProgressFunc func(event ProgressEvent)

// pageResult holds the outcome of processing a single URL.
type pageResult struct {
	entry doccrawl.QueuedURL
	doc   *doccrawl.Document
	links []string
	err   error

	// extractErr is set when the page could not be parsed. The page is
	// then treated as having no content.
	extractErr error

	skipped   bool
	abandoned bool
}

// crawlRun is the state of a single Crawl call.
type crawlRun struct {
	cfg      doccrawl.CrawlConfig
	scope    *doccrawl.Scope
	frontier *Frontier
	result   *doccrawl.CrawlResult
	progress ProgressFunc
}

// Crawl starts at cfg.SeedURL and follows links within the configured scope
// until the frontier is exhausted, MaxPages pages were dispatched or ctx is
// canceled. Page failures are recorded in the result. Only an invalid
// configuration returns an error, before anything is fetched. A canceled
// crawl returns the work completed so far with State Aborted.
func (c *Crawler) Crawl(ctx context.Context, cfg doccrawl.CrawlConfig, progress ProgressFunc) (*doccrawl.CrawlResult, error) {
	scope, err := cfg.Scope()
	if err != nil {
		return nil, err
	}
	seed, ok := scope.Normalize(cfg.SeedURL, cfg.SeedURL)
	if !ok {
		return nil, doccrawl.Errorf(doccrawl.EINVALID, "seed URL %q is outside the crawl scope", cfg.SeedURL)
	}

	r := &crawlRun{
		cfg:      cfg,
		scope:    scope,
		frontier: NewFrontier(cfg.Order, frontierExpectedURLs, frontierFalsePositiveRate),
		result: &doccrawl.CrawlResult{
			Seed:       seed,
			State:      doccrawl.StateRunning,
			Documents:  []*doccrawl.Document{},
			FailedURLs: []doccrawl.FailedURL{},
			Visited:    []string{},
			Skipped:    []string{},
			StartedAt:  c.now(),
		},
		progress: progress,
	}

	r.frontier.Push(doccrawl.QueuedURL{URL: seed})
	for _, extra := range cfg.ExtraSeeds {
		if u, ok := scope.Normalize(extra, seed); ok {
			r.frontier.Push(doccrawl.QueuedURL{URL: u})
		}
	}

	limiter := c.RateLimiter
	if limiter == nil {
		limiter = NewDomainLimiter(cfg.Delay)
	}

	aborted := c.run(ctx, r, limiter)

	r.result.State = doccrawl.StateCompleted
	if aborted {
		r.result.State = doccrawl.StateAborted
	}
	r.result.FinishedAt = c.now()
	r.emit(ProgressEvent{Type: ProgressFinished})

	return r.result, nil
}

// run drives the worker pool. The calling goroutine owns the frontier
// and the result; workers only process pages. Reports whether the crawl
// was cut short by ctx.
func (c *Crawler) run(ctx context.Context, r *crawlRun, limiter doccrawl.DomainLimiter) bool {
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	concurrency = min(concurrency, r.cfg.MaxPages)

	workCh := make(chan doccrawl.QueuedURL)
	resultCh := make(chan pageResult)
	done := make(chan struct{})

	var g errgroup.Group
	for range concurrency {
		g.Go(func() error {
			for entry := range workCh {
				res := c.process(ctx, r, limiter, entry)
				select {
				case resultCh <- res:
				case <-done:
					return nil
				}
			}
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(resultCh)
	}()

	dispatched := 0 // pages handed to workers, excluding robots skips
	pending := 0    // pages currently being processed
	var next *doccrawl.QueuedURL

	// A URL is only taken from the frontier when a worker is free, so that
	// links found by the pages in flight compete for the next slot.
	pop := func() {
		if next == nil && pending < concurrency && dispatched < r.cfg.MaxPages {
			if e, ok := r.frontier.Pop(); ok {
				next = &e
			}
		}
	}
	pop()

	aborted := false
loop:
	for next != nil || pending > 0 {
		var work chan<- doccrawl.QueuedURL
		var entry doccrawl.QueuedURL
		if next != nil {
			work = workCh
			entry = *next
		}

		select {
		case <-ctx.Done():
			aborted = true
			break loop
		case work <- entry:
			dispatched++
			pending++
			next = nil
			r.emit(ProgressEvent{Type: ProgressStarted, URL: entry.URL, Depth: entry.Depth})
		case res := <-resultCh:
			pending--
			if res.skipped {
				dispatched--
			}
			r.record(res, true)
		}
		pop()
	}

	close(workCh)

	if pending > 0 {
		drainTimeout := c.DrainTimeout
		if drainTimeout <= 0 {
			drainTimeout = DefaultDrainTimeout
		}
		timer := time.NewTimer(drainTimeout)
		defer timer.Stop()
	drain:
		for pending > 0 {
			select {
			case res, ok := <-resultCh:
				if !ok {
					break drain
				}
				pending--
				r.record(res, false)
			case <-timer.C:
				break drain
			}
		}
	}
	close(done)

	return aborted
}

// process fetches, extracts and discovers the links of one page.
func (c *Crawler) process(ctx context.Context, r *crawlRun, limiter doccrawl.DomainLimiter, entry doccrawl.QueuedURL) pageResult {
	res := pageResult{entry: entry}

	if c.Robots != nil && !c.Robots.Allowed(ctx, entry.URL) {
		res.skipped = true
		return res
	}

	host := r.scope.Host
	if u, err := url.Parse(entry.URL); err == nil {
		host = u.Host
	}
	if err := limiter.Wait(ctx, host); err != nil {
		res.abandoned = true
		return res
	}

	page, err := c.Fetcher.Fetch(ctx, entry.URL)
	if err != nil {
		if ctx.Err() != nil {
			res.abandoned = true
			return res
		}
		res.err = err
		return res
	}

	base := page.URL
	if base == "" {
		base = entry.URL
	}
	body := page.Body

	content, err := c.Extractor.Extract(body, base, r.cfg.MinContentLength)
	if err != nil {
		res.extractErr = err
		content = nil
	}

	rendered := false
	if content.Empty() && c.Renderer != nil {
		if rc, rbody, ok := c.render(ctx, entry.URL, base, r.cfg.MinContentLength); ok {
			body = rbody
			if !rc.Empty() {
				content = rc
				rendered = true
				res.extractErr = nil
			}
		}
	}

	if entry.Depth < r.cfg.MaxDepth {
		if links, err := c.Links.DiscoverLinks(body, base, r.scope); err == nil {
			res.links = links
		}
	}

	if !content.Empty() {
		codeExamples := content.CodeBlocks
		if codeExamples == nil {
			codeExamples = []string{}
		}
		res.doc = &doccrawl.Document{
			URL:          entry.URL,
			Title:        content.Title,
			Text:         content.Text,
			CodeExamples: codeExamples,
			ScrapedAt:    c.now().UTC(),
			ContentHTML:  content.ContentHTML,
			ContentHash:  ComputeHash(content.Text),
			Strategy:     content.Strategy,
			Rendered:     rendered,
		}
	}

	return res
}

// render fetches url with scripts executed and extracts it. A rendering
// failure is not a page failure: the plain result stands.
func (c *Crawler) render(ctx context.Context, pageURL, base string, minLength int) (*doccrawl.ExtractedContent, string, bool) {
	wait := c.RenderWait
	if wait <= 0 {
		wait = DefaultRenderWait
	}
	page, err := c.Renderer.FetchRendered(ctx, pageURL, c.Ready, wait)
	if err != nil {
		return nil, "", false
	}
	content, err := c.Extractor.Extract(page.Body, base, minLength)
	if err != nil {
		return nil, "", false
	}
	return content, page.Body, true
}

// record applies a page result to the crawl state. Links are only queued
// when explore is true.
func (r *crawlRun) record(res pageResult, explore bool) {
	entry := res.entry
	switch {
	case res.abandoned:
		return
	case res.skipped:
		r.result.Skipped = append(r.result.Skipped, entry.URL)
		r.emit(ProgressEvent{Type: ProgressSkipped, URL: entry.URL, Depth: entry.Depth})
		return
	}

	r.result.Visited = append(r.result.Visited, entry.URL)

	if res.err != nil {
		r.result.FailedURLs = append(r.result.FailedURLs, failedURL(entry.URL, res.err))
		r.emit(ProgressEvent{Type: ProgressFailed, URL: entry.URL, Depth: entry.Depth, Error: res.err})
		return
	}

	if explore && entry.Depth+1 <= r.cfg.MaxDepth {
		for _, link := range res.links {
			r.frontier.Push(doccrawl.QueuedURL{URL: link, Depth: entry.Depth + 1})
		}
	}

	if res.doc == nil {
		r.emit(ProgressEvent{Type: ProgressEmpty, URL: entry.URL, Depth: entry.Depth, Error: res.extractErr})
		return
	}
	r.result.Documents = append(r.result.Documents, res.doc)
	r.emit(ProgressEvent{Type: ProgressCompleted, URL: entry.URL, Depth: entry.Depth, Document: res.doc})
}

func (r *crawlRun) emit(event ProgressEvent) {
	if r.progress == nil {
		return
	}
	event.Visited = len(r.result.Visited)
	event.Queued = r.frontier.Len()
	r.progress(event)
}

// failedURL describes err as a FailedURL. Errors other than
// *doccrawl.FetchError are classified as network failures.
func failedURL(u string, err error) doccrawl.FailedURL {
	f := doccrawl.FailedURL{URL: u, Kind: doccrawl.FetchNetwork, Reason: err.Error()}
	var fe *doccrawl.FetchError
	if errors.As(err, &fe) {
		f.Kind = fe.Kind
	}
	return f
}

func (c *Crawler) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
