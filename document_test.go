package doccrawl_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fwojciec/doccrawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrawlResult_Summary(t *testing.T) {
	t.Parallel()

	result := &doccrawl.CrawlResult{
		Visited:    []string{"https://example.com/a", "https://example.com/b", "https://example.com/c"},
		Documents:  []*doccrawl.Document{{URL: "https://example.com/a"}},
		FailedURLs: []doccrawl.FailedURL{{URL: "https://example.com/c", Kind: doccrawl.FetchTimeout}},
	}

	assert.Equal(t, doccrawl.Summary{
		PagesVisited:       3,
		DocumentsExtracted: 1,
		FailedCount:        1,
	}, result.Summary())
}

func TestCrawlResult_SortedFailedURLs(t *testing.T) {
	t.Parallel()

	t.Run("sorts and deduplicates", func(t *testing.T) {
		t.Parallel()

		result := &doccrawl.CrawlResult{
			FailedURLs: []doccrawl.FailedURL{
				{URL: "https://example.com/z"},
				{URL: "https://example.com/a"},
				{URL: "https://example.com/z"},
			},
		}

		assert.Equal(t, []string{"https://example.com/a", "https://example.com/z"}, result.SortedFailedURLs())
	})

	t.Run("returns an empty list without failures", func(t *testing.T) {
		t.Parallel()

		result := &doccrawl.CrawlResult{}

		assert.Empty(t, result.SortedFailedURLs())
	})
}

func TestDocument_JSON(t *testing.T) {
	t.Parallel()

	doc := &doccrawl.Document{
		URL:          "https://example.com/docs/a",
		Title:        "A",
		Text:         "body",
		CodeExamples: []string{},
		ScrapedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		ContentHTML:  "<p>body</p>",
		Strategy:     "semantic",
	}

	data, err := json.Marshal(doc)

	require.NoError(t, err)
	assert.Equal(t,
		`{"url":"https://example.com/docs/a","title":"A","text":"body","code_examples":[],"scraped_at":"2024-05-01T12:00:00Z"}`,
		string(data))
}

func TestDocument_Validate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, doccrawl.EINVALID, doccrawl.ErrorCode((&doccrawl.Document{}).Validate()))
	assert.NoError(t, (&doccrawl.Document{URL: "https://example.com/"}).Validate())
}
