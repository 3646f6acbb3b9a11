// Package htmltomarkdown renders extracted page content as Markdown with
// JohannesKaufmann/html-to-markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/doccrawl"
)

var _ doccrawl.Converter = (*Converter)(nil)

// Converter produces CommonMark with GitHub-style tables. Fenced code
// blocks keep the language of a "language-*" class. A Converter is safe
// for concurrent use.
type Converter struct {
	md *converter.Converter
}

// NewConverter creates a Converter using "```" fences and "-" bullets.
func NewConverter() *Converter {
	return &Converter{md: converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithCodeBlockFence("```"),
				commonmark.WithBulletListMarker("-"),
			),
			table.NewTablePlugin(),
		),
	)}
}

// Convert renders content HTML of the page at pageURL. Relative link and
// image targets become absolute, so a saved page still points at the site.
func (c *Converter) Convert(html, pageURL string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", doccrawl.Errorf(doccrawl.EINVALID, "empty HTML input")
	}
	var opts []converter.ConvertOptionFunc
	if pageURL != "" {
		opts = append(opts, converter.WithDomain(pageURL))
	}
	md, err := c.md.ConvertString(html, opts...)
	if err != nil {
		return "", doccrawl.Errorf(doccrawl.EINTERNAL, "converting %s to markdown: %v", pageURL, err)
	}
	return md, nil
}

// Extension returns ".md".
func (c *Converter) Extension() string { return ".md" }
