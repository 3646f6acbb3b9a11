package fs

import (
	"context"
	"errors"
	"fmt"

	"github.com/fwojciec/doccrawl"
)

var _ doccrawl.ResultWriter = (*Sink)(nil)

// Output pairs a destination file with the formatter that renders it.
type Output struct {
	Path      string
	Formatter doccrawl.ResultFormatter
}

// Sink writes a crawl result to several files. Each file is written
// atomically and independently of the others.
type Sink struct {
	Outputs []Output
}

// NewSink returns a Sink for outputs. Outputs with an empty path are
// ignored.
func NewSink(outputs ...Output) *Sink {
	s := &Sink{}
	for _, o := range outputs {
		if o.Path != "" {
			s.Outputs = append(s.Outputs, o)
		}
	}
	return s
}

// WriteResult attempts every output and returns all failures joined. The
// context is not consulted: results of a canceled crawl must still be
// written.
func (s *Sink) WriteResult(_ context.Context, result *doccrawl.CrawlResult) error {
	var errs []error
	for _, o := range s.Outputs {
		data, err := o.Formatter.FormatResult(result)
		if err != nil {
			errs = append(errs, fmt.Errorf("formatting %s: %w", o.Path, err))
			continue
		}
		if err := WriteFileAtomic(o.Path, data, 0o644); err != nil {
			errs = append(errs, fmt.Errorf("writing %s: %w", o.Path, err))
		}
	}
	return errors.Join(errs...)
}
