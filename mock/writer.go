package mock

import (
	"context"

	"github.com/fwojciec/doccrawl"
)

var _ doccrawl.ResultFormatter = (*ResultFormatter)(nil)

// ResultFormatter is a mock implementation of doccrawl.ResultFormatter.
type ResultFormatter struct {
	FormatResultFn func(result *doccrawl.CrawlResult) ([]byte, error)
}

func (f *ResultFormatter) FormatResult(result *doccrawl.CrawlResult) ([]byte, error) {
	return f.FormatResultFn(result)
}

var _ doccrawl.ResultWriter = (*ResultWriter)(nil)

// ResultWriter is a mock implementation of doccrawl.ResultWriter.
type ResultWriter struct {
	WriteResultFn func(ctx context.Context, result *doccrawl.CrawlResult) error
}

func (w *ResultWriter) WriteResult(ctx context.Context, result *doccrawl.CrawlResult) error {
	return w.WriteResultFn(ctx, result)
}

var _ doccrawl.PageStore = (*PageStore)(nil)

// PageStore is a mock implementation of doccrawl.PageStore.
type PageStore struct {
	SaveFn   func(ctx context.Context, doc *doccrawl.Document) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *PageStore) Save(ctx context.Context, doc *doccrawl.Document) error {
	return s.SaveFn(ctx, doc)
}

func (s *PageStore) Commit() error {
	return s.CommitFn()
}

func (s *PageStore) Abort() error {
	return s.AbortFn()
}
