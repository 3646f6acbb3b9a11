package doccrawl

import (
	"net/url"
	"strings"
	"time"
)

// Default crawl limits.
const (
	DefaultMaxPages         = 50
	DefaultMaxDepth         = 5
	DefaultDelay            = time.Second
	DefaultMinContentLength = 100
)

// TraversalOrder selects which frontier entry is visited next.
type TraversalOrder string

// Traversal orders.
const (
	// OrderDepthFirst visits the deepest queued URL first and, among URLs
	// of equal depth, the lexicographically smallest.
	OrderDepthFirst TraversalOrder = "depth-first"

	// OrderBreadthFirst visits the shallowest queued URL first, in the
	// order URLs were discovered.
	OrderBreadthFirst TraversalOrder = "breadth-first"
)

// CrawlConfig holds the immutable parameters of a single crawl run.
type CrawlConfig struct {
	// SeedURL is the absolute http(s) URL the crawl starts from.
	SeedURL string

	// ExtraSeeds are additional depth-0 URLs, e.g. from a sitemap.
	// Out-of-scope entries are ignored.
	ExtraSeeds []string

	// Domain restricts the crawl to one host. Defaults to the seed host.
	Domain string

	// PathPrefix restricts the crawl to paths with this prefix.
	// Empty means no restriction.
	PathPrefix string

	MaxPages int
	MaxDepth int

	// Delay is the minimum interval between two requests to the same host.
	Delay time.Duration

	// MinContentLength is the number of characters of extracted text a
	// page needs to produce a Document.
	MinContentLength int

	// ExcludedExtensions defaults to DefaultExcludedExtensions when nil.
	ExcludedExtensions []string

	Filter *URLFilter
	Order  TraversalOrder
}

// NewCrawlConfig returns a configuration for seed with default limits.
func NewCrawlConfig(seed string) CrawlConfig {
	return CrawlConfig{
		SeedURL:          seed,
		MaxPages:         DefaultMaxPages,
		MaxDepth:         DefaultMaxDepth,
		Delay:            DefaultDelay,
		MinContentLength: DefaultMinContentLength,
		Order:            OrderDepthFirst,
	}
}

// Validate returns an EINVALID error if the configuration cannot be run.
func (c *CrawlConfig) Validate() error {
	if c.SeedURL == "" {
		return Errorf(EINVALID, "seed URL required")
	}
	u, err := url.Parse(c.SeedURL)
	if err != nil {
		return Errorf(EINVALID, "invalid seed URL %q: %v", c.SeedURL, err)
	}
	if scheme := strings.ToLower(u.Scheme); scheme != "http" && scheme != "https" {
		return Errorf(EINVALID, "seed URL %q must use http or https", c.SeedURL)
	}
	if u.Host == "" {
		return Errorf(EINVALID, "seed URL %q has no host", c.SeedURL)
	}
	if c.MaxPages < 1 {
		return Errorf(EINVALID, "max pages must be at least 1, got %d", c.MaxPages)
	}
	if c.MaxDepth < 0 {
		return Errorf(EINVALID, "max depth must not be negative, got %d", c.MaxDepth)
	}
	if c.Delay < 0 {
		return Errorf(EINVALID, "delay must not be negative, got %s", c.Delay)
	}
	if c.MinContentLength < 0 {
		return Errorf(EINVALID, "minimum content length must not be negative, got %d", c.MinContentLength)
	}
	if c.PathPrefix != "" && !strings.HasPrefix(c.PathPrefix, "/") {
		return Errorf(EINVALID, "path prefix %q must start with /", c.PathPrefix)
	}
	switch c.Order {
	case "", OrderDepthFirst, OrderBreadthFirst:
	default:
		return Errorf(EINVALID, "unknown traversal order %q", c.Order)
	}
	return nil
}

// Scope returns the URL scope described by the configuration.
func (c *CrawlConfig) Scope() (*Scope, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	host := c.Domain
	if host == "" {
		u, _ := url.Parse(c.SeedURL)
		host = u.Host
	}

	exts := c.ExcludedExtensions
	if exts == nil {
		exts = DefaultExcludedExtensions
	}
	lowered := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		lowered = append(lowered, e)
	}

	return &Scope{
		Host:               strings.ToLower(host),
		PathPrefix:         c.PathPrefix,
		ExcludedExtensions: lowered,
		Filter:             c.Filter,
	}, nil
}
