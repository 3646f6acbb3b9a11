package doccrawl

import "context"

// ResultFormatter renders a crawl result as one output artifact.
type ResultFormatter interface {
	FormatResult(result *CrawlResult) ([]byte, error)
}

// ResultWriter persists a crawl result.
type ResultWriter interface {
	// WriteResult writes every output it is responsible for. A failure of
	// one output does not prevent the others from being written; all
	// failures are reported together.
	WriteResult(ctx context.Context, result *CrawlResult) error
}
