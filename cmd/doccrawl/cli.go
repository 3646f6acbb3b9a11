package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/doccrawl/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Logger *slog.Logger
	Out    *Printer
	Main   *Main
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  kong.ConfigFlag `help:"YAML file with flag defaults" placeholder:"PATH"`
	Debug   bool            `help:"Log every fetch and extraction to stderr"`
	NoColor bool            `name:"no-color" help:"Disable colored output"`

	Crawl CrawlCmd `cmd:"" help:"Crawl a documentation site starting from a seed URL"`
	Retry RetryCmd `cmd:"" help:"Re-fetch the URLs listed in a failed-URL file"`
	Runs  RunsCmd  `cmd:"" help:"List recorded crawl runs or the documents of one run"`
	Probe ProbeCmd `cmd:"" help:"Analyze one page: framework, extraction strategy and links"`
}

// OutputFlags select the artifacts written at the end of a run. An empty
// path disables the artifact.
type OutputFlags struct {
	JSON        string `name:"json" default:"docs.json" help:"JSON document array output" placeholder:"PATH"`
	Markdown    string `name:"markdown" default:"docs.md" help:"Markdown report output" placeholder:"PATH"`
	Failed      string `name:"failed" default:"failed_urls.txt" help:"Failed URL list output" placeholder:"PATH"`
	CodeLang    string `name:"code-lang" help:"Language label for code fences in the Markdown report"`
	Checkpoint  int    `name:"checkpoint" default:"10" help:"Rewrite the JSON output every N documents (0 disables)"`
	PagesDir    string `name:"pages-dir" help:"Also write one file per document under this directory" placeholder:"DIR"`
	PagesFormat string `name:"pages-format" default:"markdown" enum:"markdown,text" help:"Per-page file format (markdown, text)"`
	DB          string `name:"db" default:"${db_path}" help:"Run history database"`
	NoHistory   bool   `name:"no-history" help:"Do not record the run in the history database"`
}

// FetchFlags configure how pages are fetched and extracted.
type FetchFlags struct {
	Timeout     time.Duration `short:"t" default:"30s" help:"Per-request timeout"`
	Delay       time.Duration `default:"1s" help:"Minimum interval between requests to the same host"`
	Concurrency int           `short:"c" default:"1" help:"Pages processed at the same time"`
	MinContent  int           `name:"min-content" default:"100" help:"Characters of text a page needs to produce a document"`
	Backend     string        `default:"http" enum:"http,colly" help:"Plain fetch backend (http, colly)"`
	UserAgent   string        `name:"user-agent" help:"Override the User-Agent header"`
	Render      bool          `help:"Render pages in a headless browser when plain HTML has no content"`
	RenderWait  time.Duration `name:"render-wait" default:"10s" help:"Longest wait for a rendered page to show content"`
	Article     string        `default:"none" enum:"none,trafilatura,readability" help:"Article locator tried before the selector cascade (none, trafilatura, readability)"`
	Robots      bool          `help:"Honor robots.txt"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL string `arg:"" help:"Seed URL"`

	MaxPages   int      `name:"max-pages" short:"n" default:"50" help:"Maximum number of pages to visit"`
	MaxDepth   int      `name:"max-depth" short:"d" default:"5" help:"Maximum number of links followed from the seed"`
	PathPrefix string   `name:"path-prefix" help:"Only follow URLs under this path (default: the seed directory)"`
	AnyPath    bool     `name:"any-path" help:"Follow every path on the seed host"`
	ExcludeExt []string `name:"exclude-ext" help:"File extensions never followed (default: binary and media types)"`
	Include    []string `short:"i" help:"Only follow URLs matching a regex (repeatable)"`
	Exclude    []string `short:"x" help:"Never follow URLs matching a regex (repeatable)"`
	Order      string   `default:"depth-first" enum:"depth-first,breadth-first" help:"Traversal order (depth-first, breadth-first)"`
	Sitemap    bool     `help:"Seed the crawl with URLs from the site's sitemaps"`

	FetchFlags  `embed:""`
	OutputFlags `embed:""`
}

// RetryCmd is the "retry" subcommand.
type RetryCmd struct {
	File string `arg:"" type:"existingfile" help:"File with one URL per line, as written by --failed"`

	FetchFlags  `embed:""`
	OutputFlags `embed:""`
}

// ProbeCmd is the "probe" subcommand.
type ProbeCmd struct {
	URL string `arg:"" help:"Page to analyze"`

	FetchFlags `embed:""`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	ID     string `arg:"" optional:"" help:"Show the documents of this run"`
	Seed   string `help:"Only list runs of this seed URL"`
	Limit  int    `default:"20" help:"Maximum number of runs listed"`
	Delete bool   `help:"Delete the run given by ID"`
	DB     string `name:"db" default:"${db_path}" help:"Run history database"`
}

// progressFunc adapts the printer to crawl progress events.
func progressFunc(out *Printer, cp *Checkpointer) crawl.ProgressFunc {
	return func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressCompleted:
			out.Saved(event.URL, event.Document)
			cp.Add(event.Document)
		case crawl.ProgressEmpty:
			out.Empty(event.URL)
		case crawl.ProgressFailed:
			out.Failed(event.URL, event.Error)
		case crawl.ProgressSkipped:
			out.Skipped(event.URL)
		case crawl.ProgressStarted:
			out.Visit(event.URL, event.Depth)
		}
	}
}
