package doccrawl

import "context"

// QueuedURL is a frontier entry: a normalized URL and the number of links
// followed from a seed to reach it.
type QueuedURL struct {
	URL   string
	Depth int
}

// URLFrontier holds the URLs waiting to be visited.
type URLFrontier interface {
	// Push adds an entry to the frontier.
	// Returns false if the URL was pushed before, whether or not it has
	// been popped since.
	Push(entry QueuedURL) bool

	// Pop returns the next entry.
	// Returns false if the frontier is empty.
	Pop() (QueuedURL, bool)

	// Len returns the number of entries waiting.
	Len() int

	// Seen returns true if the URL has been queued or processed.
	Seen(url string) bool
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
