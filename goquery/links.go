package goquery

import (
	"net/url"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/doccrawl"
)

var _ doccrawl.LinkDiscoverer = (*LinkDiscoverer)(nil)

// LinkDiscoverer collects the hyperlinks of a page.
type LinkDiscoverer struct{}

// NewLinkDiscoverer creates a new LinkDiscoverer.
func NewLinkDiscoverer() *LinkDiscoverer {
	return &LinkDiscoverer{}
}

// DiscoverLinks returns the in-scope targets of every a[href] on the page.
// Relative links resolve against the page's <base href> when it has one.
func (d *LinkDiscoverer) DiscoverLinks(rawHTML, pageURL string, scope *doccrawl.Scope) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, doccrawl.Errorf(doccrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	base := pageURL
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		base = resolveBase(pageURL, href)
	}

	seen := make(map[string]struct{})
	links := []string{}
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		u, ok := scope.Normalize(href, base)
		if !ok {
			return
		}
		if _, dup := seen[u]; dup {
			return
		}
		seen[u] = struct{}{}
		links = append(links, u)
	})

	slices.Sort(links)
	return links, nil
}

// resolveBase resolves a <base href> against the page URL. An unusable
// base falls back to the page URL.
func resolveBase(pageURL, href string) string {
	page, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return pageURL
	}
	return page.ResolveReference(ref).String()
}
