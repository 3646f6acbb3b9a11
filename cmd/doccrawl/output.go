package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/fwojciec/doccrawl"
)

// Output prefixes
const (
	prefixSaved    = "✓"
	prefixSkipped  = "⚠"
	prefixError    = "✗"
	prefixVisiting = "→"
	prefixInfo     = "ℹ"
)

// maxURLWidth bounds URLs in progress lines.
const maxURLWidth = 80

// Printer writes progress and summaries for humans. Progress goes to
// stderr so stdout stays clean for summaries and listings.
type Printer struct {
	stdout io.Writer
	stderr io.Writer

	success func(a ...any) string
	warn    func(a ...any) string
	err     func(a ...any) string
	info    func(a ...any) string
	dim     func(a ...any) string
	bold    func(a ...any) string
}

// NewPrinter returns a Printer. Colors are used only when noColor is false
// and the terminal supports them.
func NewPrinter(stdout, stderr io.Writer, noColor bool) *Printer {
	style := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if noColor {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return &Printer{
		stdout:  stdout,
		stderr:  stderr,
		success: style(color.FgGreen),
		warn:    style(color.FgYellow),
		err:     style(color.FgRed),
		info:    style(color.FgCyan),
		dim:     style(color.Faint),
		bold:    style(color.Bold),
	}
}

// Visit reports that url is being processed.
func (p *Printer) Visit(url string, depth int) {
	fmt.Fprintf(p.stderr, "%s %s %s\n", p.info(prefixVisiting), p.dim(ShortenURL(url, maxURLWidth)), p.dim(fmt.Sprintf("(depth %d)", depth)))
}

// Saved reports an extracted document.
func (p *Printer) Saved(url string, doc *doccrawl.Document) {
	title := ""
	if doc != nil {
		title = doc.Title
	}
	fmt.Fprintf(p.stderr, "%s %s %s\n", p.success(prefixSaved), title, p.dim(ShortenURL(url, maxURLWidth)))
}

// Empty reports a page without enough content.
func (p *Printer) Empty(url string) {
	fmt.Fprintf(p.stderr, "%s no content: %s\n", p.warn(prefixSkipped), ShortenURL(url, maxURLWidth))
}

// Skipped reports a page disallowed by robots.txt.
func (p *Printer) Skipped(url string) {
	fmt.Fprintf(p.stderr, "%s disallowed by robots.txt: %s\n", p.warn(prefixSkipped), ShortenURL(url, maxURLWidth))
}

// Failed reports a page that could not be fetched.
func (p *Printer) Failed(url string, err error) {
	fmt.Fprintf(p.stderr, "%s %s: %v\n", p.err(prefixError), ShortenURL(url, maxURLWidth), err)
}

// Info prints an informational line.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.stderr, "%s %s\n", p.info(prefixInfo), fmt.Sprintf(format, args...))
}

// Warn prints a warning line.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintf(p.stderr, "%s %s\n", p.warn(prefixSkipped), fmt.Sprintf(format, args...))
}

// Summary prints the headline counts of a result to stdout.
func (p *Printer) Summary(result *doccrawl.CrawlResult) {
	s := result.Summary()
	state := p.success(string(result.State))
	if result.State == doccrawl.StateAborted {
		state = p.warn(string(result.State))
	}

	bytes := 0
	for _, d := range result.Documents {
		bytes += len(d.Text)
	}

	fmt.Fprintf(p.stdout, "%s %s\n", p.bold("Crawl"), state)
	fmt.Fprintf(p.stdout, "  pages_visited:       %d\n", s.PagesVisited)
	fmt.Fprintf(p.stdout, "  documents_extracted: %d %s\n", s.DocumentsExtracted, p.dim("("+HumanBytes(bytes)+" of text)"))
	failed := fmt.Sprintf("%d", s.FailedCount)
	if s.FailedCount > 0 {
		failed = p.err(failed)
	}
	fmt.Fprintf(p.stdout, "  failed_count:        %s\n", failed)
	if len(result.Skipped) > 0 {
		fmt.Fprintf(p.stdout, "  skipped_by_robots:   %d\n", len(result.Skipped))
	}
	fmt.Fprintf(p.stdout, "  duration:            %s\n", result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))
	if s.DocumentsExtracted == 0 {
		fmt.Fprintf(p.stdout, "%s no documents were extracted\n", p.warn(prefixSkipped))
	}
}

// Wrote reports a written artifact.
func (p *Printer) Wrote(path string) {
	fmt.Fprintf(p.stdout, "%s wrote %s\n", p.success(prefixSaved), path)
}
