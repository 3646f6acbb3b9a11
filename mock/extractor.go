package mock

import "github.com/fwojciec/doccrawl"

var _ doccrawl.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of doccrawl.Extractor.
type Extractor struct {
	ExtractFn func(rawHTML, pageURL string, minLength int) (*doccrawl.ExtractedContent, error)
}

func (e *Extractor) Extract(rawHTML, pageURL string, minLength int) (*doccrawl.ExtractedContent, error) {
	return e.ExtractFn(rawHTML, pageURL, minLength)
}

var _ doccrawl.ArticleLocator = (*ArticleLocator)(nil)

// ArticleLocator is a mock implementation of doccrawl.ArticleLocator.
type ArticleLocator struct {
	LocateFn func(rawHTML, pageURL string) (*doccrawl.Article, error)
}

func (l *ArticleLocator) Locate(rawHTML, pageURL string) (*doccrawl.Article, error) {
	return l.LocateFn(rawHTML, pageURL)
}

var _ doccrawl.LinkDiscoverer = (*LinkDiscoverer)(nil)

// LinkDiscoverer is a mock implementation of doccrawl.LinkDiscoverer.
type LinkDiscoverer struct {
	DiscoverLinksFn func(rawHTML, pageURL string, scope *doccrawl.Scope) ([]string, error)
}

func (d *LinkDiscoverer) DiscoverLinks(rawHTML, pageURL string, scope *doccrawl.Scope) ([]string, error) {
	return d.DiscoverLinksFn(rawHTML, pageURL, scope)
}

var _ doccrawl.FrameworkDetector = (*FrameworkDetector)(nil)

// FrameworkDetector is a mock implementation of doccrawl.FrameworkDetector.
type FrameworkDetector struct {
	DetectFn func(html string) doccrawl.Framework
}

func (d *FrameworkDetector) Detect(html string) doccrawl.Framework {
	return d.DetectFn(html)
}

var _ doccrawl.Converter = (*Converter)(nil)

// Converter is a mock implementation of doccrawl.Converter.
type Converter struct {
	ConvertFn   func(html, pageURL string) (string, error)
	ExtensionFn func() string
}

func (c *Converter) Convert(html, pageURL string) (string, error) {
	return c.ConvertFn(html, pageURL)
}

func (c *Converter) Extension() string {
	return c.ExtensionFn()
}
