// Package html2text renders content HTML as plain text with
// jaytaylor/html2text.
package html2text

import (
	"net/url"
	"strings"

	"github.com/fwojciec/doccrawl"
	"github.com/jaytaylor/html2text"
	"golang.org/x/net/html"
)

var _ doccrawl.Converter = (*Converter)(nil)

// Converter converts HTML to readable plain text. Tables are drawn as
// ASCII grids.
type Converter struct {
	opts html2text.Options
}

// NewConverter creates a Converter. Link targets are kept unless omitLinks
// is set.
func NewConverter(omitLinks bool) *Converter {
	return &Converter{opts: html2text.Options{
		PrettyTables: true,
		OmitLinks:    omitLinks,
	}}
}

// Convert transforms HTML content into plain text. Kept link targets are
// resolved against pageURL.
func (c *Converter) Convert(content, pageURL string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", doccrawl.Errorf(doccrawl.EINVALID, "empty HTML input")
	}
	if c.opts.OmitLinks {
		return html2text.FromString(content, c.opts)
	}

	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return "", doccrawl.Errorf(doccrawl.EINVALID, "failed to parse HTML: %v", err)
	}
	if base, err := url.Parse(pageURL); err == nil && base.IsAbs() {
		absolutize(doc, base)
	}
	return html2text.FromHTMLNode(doc, c.opts)
}

// Extension returns ".txt".
func (c *Converter) Extension() string { return ".txt" }

// absolutize rewrites relative href attributes below n against base.
func absolutize(n *html.Node, base *url.URL) {
	if n.Type == html.ElementNode && n.Data == "a" {
		for i, attr := range n.Attr {
			if attr.Key != "href" {
				continue
			}
			if ref, err := url.Parse(strings.TrimSpace(attr.Val)); err == nil && !ref.IsAbs() {
				n.Attr[i].Val = base.ResolveReference(ref).String()
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		absolutize(c, base)
	}
}
