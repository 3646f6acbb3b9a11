package fs

import (
	"encoding/json"
	"strings"

	"github.com/fwojciec/doccrawl"
)

var (
	_ doccrawl.ResultFormatter = (*JSONFormatter)(nil)
	_ doccrawl.ResultFormatter = (*FailedURLFormatter)(nil)
)

// JSONFormatter renders the documents of a result as an indented JSON
// array with keys url, title, text, code_examples and scraped_at.
type JSONFormatter struct{}

// FormatResult renders result.Documents.
func (JSONFormatter) FormatResult(result *doccrawl.CrawlResult) ([]byte, error) {
	docs := make([]doccrawl.Document, 0, len(result.Documents))
	for _, d := range result.Documents {
		doc := *d
		if doc.CodeExamples == nil {
			doc.CodeExamples = []string{}
		}
		docs = append(docs, doc)
	}

	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return nil, doccrawl.Errorf(doccrawl.EINTERNAL, "encoding documents: %v", err)
	}
	return append(data, '\n'), nil
}

// FailedURLFormatter renders the failed URLs of a result, sorted, one per
// line.
type FailedURLFormatter struct{}

// FormatResult renders result.FailedURLs.
func (FailedURLFormatter) FormatResult(result *doccrawl.CrawlResult) ([]byte, error) {
	urls := result.SortedFailedURLs()
	if len(urls) == 0 {
		return []byte{}, nil
	}
	return []byte(strings.Join(urls, "\n") + "\n"), nil
}
