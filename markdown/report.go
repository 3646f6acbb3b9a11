// Package markdown renders crawl results as a human-readable Markdown
// report using nao1215/markdown.
package markdown

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/doccrawl"
	"github.com/nao1215/markdown"
)

// Report defaults.
const (
	DefaultPreviewLength   = 2000
	DefaultMaxCodeExamples = 3
)

// TruncationMarker follows a preview that was cut short.
const TruncationMarker = "*[Content truncated]*"

var _ doccrawl.ResultFormatter = (*ReportFormatter)(nil)

// ReportFormatter renders a header block, a table of contents and one
// section per document with a text preview and the first code examples.
type ReportFormatter struct {
	// CodeLang labels fenced code examples. Empty means no label.
	CodeLang string

	// PreviewLength is the number of characters of text shown per document.
	PreviewLength int

	MaxCodeExamples int
}

// NewReportFormatter returns a formatter with the default limits.
func NewReportFormatter(codeLang string) *ReportFormatter {
	return &ReportFormatter{
		CodeLang:        codeLang,
		PreviewLength:   DefaultPreviewLength,
		MaxCodeExamples: DefaultMaxCodeExamples,
	}
}

// FormatResult renders result.
func (f *ReportFormatter) FormatResult(result *doccrawl.CrawlResult) ([]byte, error) {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	md.H1("Documentation: " + result.Seed)
	md.PlainText("")
	md.PlainText(markdown.Bold("Source:") + " " + result.Seed + "  ")
	md.PlainText(markdown.Bold("Generated:") + " " + result.FinishedAt.UTC().Format(time.RFC3339) + "  ")
	md.PlainText(markdown.Bold("Pages:") + " " + strconv.Itoa(len(result.Documents)))
	md.PlainText("")

	md.H2("Table of Contents")
	md.PlainText("")
	entries := make([]string, 0, len(result.Documents))
	for i, doc := range result.Documents {
		entries = append(entries, markdown.Link(escapeLinkText(doc.Title), "#"+Anchor(i+1, doc.Title)))
	}
	// OrderedList numbers entries itself.
	md.OrderedList(entries...)
	md.PlainText("")

	for i, doc := range result.Documents {
		f.writeDocument(md, i+1, doc)
	}

	if err := md.Build(); err != nil {
		return nil, fmt.Errorf("rendering markdown report: %w", err)
	}
	return append(bytes.TrimRight(buf.Bytes(), " \n"), '\n'), nil
}

func (f *ReportFormatter) writeDocument(md *markdown.Markdown, index int, doc *doccrawl.Document) {
	md.HorizontalRule()
	md.PlainText("")
	md.H2(heading(index, doc.Title))
	md.PlainText("")
	md.PlainText(markdown.Bold("URL:") + " " + doc.URL + "  ")
	md.PlainText(markdown.Bold("Scraped:") + " " + doc.ScrapedAt.UTC().Format(time.RFC3339))
	md.PlainText("")

	preview, truncated := Preview(doc.Text, f.PreviewLength)
	md.PlainText(preview)
	if truncated {
		md.PlainText("")
		md.PlainText(TruncationMarker)
	}
	md.PlainText("")

	examples := doc.CodeExamples
	if len(examples) > f.MaxCodeExamples {
		examples = examples[:f.MaxCodeExamples]
	}
	if len(examples) == 0 {
		return
	}
	md.H3("Code Examples")
	md.PlainText("")
	for _, code := range examples {
		if fence := longFence(code); fence != "" {
			md.PlainText(fence + f.CodeLang + "\n" + code + "\n" + fence)
		} else {
			md.CodeBlocks(markdown.SyntaxHighlight(f.CodeLang), code)
		}
		md.PlainText("")
	}
}

// longFence returns a backtick fence longer than any backtick run in code,
// or "" when the standard three-backtick fence is safe.
func longFence(code string) string {
	longest, run := 0, 0
	for _, r := range code {
		if r != '`' {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	if longest < 3 {
		return ""
	}
	return strings.Repeat("`", longest+1)
}

// heading is the section title of the index-th document.
func heading(index int, title string) string {
	return strconv.Itoa(index) + ". " + title
}

// Anchor returns the fragment identifier GitHub-style renderers assign to the
// section heading of the index-th document (1-based).
func Anchor(index int, title string) string {
	return doccrawl.Slugify(heading(index, title))
}

// Preview returns the first n characters of text, followed by "..." when
// text was longer.
func Preview(text string, n int) (string, bool) {
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text, false
	}
	runes := []rune(text)
	return strings.TrimRight(string(runes[:n]), " \n") + "...", true
}

var linkTextEscaper = strings.NewReplacer(`[`, `\[`, `]`, `\]`)

func escapeLinkText(s string) string {
	return linkTextEscaper.Replace(s)
}
