// Package readability isolates page articles with go-readability.
package readability

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/doccrawl"
	"github.com/go-shiori/go-readability"
)

var _ doccrawl.ArticleLocator = (*Locator)(nil)

// Locator finds the main article with Mozilla's Readability algorithm.
type Locator struct{}

// NewLocator creates a new Locator.
func NewLocator() *Locator {
	return &Locator{}
}

// Locate returns the article of rawHTML. pageURL is used to resolve
// relative references and may be empty.
func (l *Locator) Locate(rawHTML, pageURL string) (*doccrawl.Article, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, doccrawl.Errorf(doccrawl.EINVALID, "empty HTML input")
	}

	var u *url.URL
	if parsed, err := url.Parse(pageURL); err == nil && parsed.IsAbs() {
		u = parsed
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), u)
	if err != nil {
		return nil, err
	}

	content, err := stripBoilerplate(article.Content)
	if err != nil {
		return nil, doccrawl.Errorf(doccrawl.EINTERNAL, "failed to clean article: %v", err)
	}

	return &doccrawl.Article{
		Title:       article.Title,
		ContentHTML: content,
	}, nil
}

// boilerplateSelector matches page chrome Readability sometimes keeps when
// the article sits directly in <body>.
const boilerplateSelector = "nav, aside, footer, [role=navigation]"

// stripBoilerplate removes navigation, sidebars and footers from an
// article fragment.
func stripBoilerplate(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return content, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", err
	}
	doc.Find(boilerplateSelector).Remove()
	return doc.Find("body").Html()
}
