package doccrawl

import (
	"slices"
	"time"
)

// Document is the content extracted from one crawled page.
// Field order defines the JSON key order.
type Document struct {
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	Text         string    `json:"text"`
	CodeExamples []string  `json:"code_examples"`
	ScrapedAt    time.Time `json:"scraped_at"`

	ContentHTML string `json:"-"`
	ContentHash string `json:"-"`
	Strategy    string `json:"-"`
	Rendered    bool   `json:"-"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.URL == "" {
		return Errorf(EINVALID, "document URL required")
	}
	return nil
}

// FailedURL is a URL whose retrieval failed.
type FailedURL struct {
	URL    string         `json:"url"`
	Kind   FetchErrorKind `json:"kind"`
	Reason string         `json:"reason"`
}

// CrawlState is the lifecycle state of a crawl.
type CrawlState string

// Crawl states.
const (
	StateIdle      CrawlState = "idle"
	StateRunning   CrawlState = "running"
	StateCompleted CrawlState = "completed"
	StateAborted   CrawlState = "aborted"
)

// CrawlResult is everything a crawl produced. Ordinary page failures are
// recorded here rather than returned as errors.
type CrawlResult struct {
	Seed  string
	State CrawlState

	// Documents in the order they were extracted.
	Documents []*Document

	FailedURLs []FailedURL

	// Visited lists processed URLs in processing order.
	Visited []string

	// Skipped lists URLs disallowed by robots.txt.
	Skipped []string

	StartedAt  time.Time
	FinishedAt time.Time
}

// Summary is the headline outcome of a crawl.
type Summary struct {
	PagesVisited       int `json:"pages_visited"`
	DocumentsExtracted int `json:"documents_extracted"`
	FailedCount        int `json:"failed_count"`
}

// Summary returns the headline counts of the result.
func (r *CrawlResult) Summary() Summary {
	return Summary{
		PagesVisited:       len(r.Visited),
		DocumentsExtracted: len(r.Documents),
		FailedCount:        len(r.FailedURLs),
	}
}

// SortedFailedURLs returns the failed URLs in lexicographic order.
func (r *CrawlResult) SortedFailedURLs() []string {
	urls := make([]string, 0, len(r.FailedURLs))
	for _, f := range r.FailedURLs {
		urls = append(urls, f.URL)
	}
	slices.Sort(urls)
	return slices.Compact(urls)
}
