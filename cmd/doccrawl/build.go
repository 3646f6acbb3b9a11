package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"

	"github.com/fwojciec/doccrawl"
	"github.com/fwojciec/doccrawl/colly"
	"github.com/fwojciec/doccrawl/crawl"
	"github.com/fwojciec/doccrawl/fs"
	"github.com/fwojciec/doccrawl/goquery"
	"github.com/fwojciec/doccrawl/html2text"
	"github.com/fwojciec/doccrawl/htmltomarkdown"
	dchttp "github.com/fwojciec/doccrawl/http"
	"github.com/fwojciec/doccrawl/markdown"
	"github.com/fwojciec/doccrawl/readability"
	"github.com/fwojciec/doccrawl/rod"
	dcslog "github.com/fwojciec/doccrawl/slog"
	"github.com/fwojciec/doccrawl/trafilatura"
)

// services are the collaborators of one crawl command.
type services struct {
	crawler  *crawl.Crawler
	detector doccrawl.FrameworkDetector
	sitemaps doccrawl.SitemapService
	closers  []func() error
}

// Close releases everything the services opened, in reverse order.
func (s *services) Close() error {
	var errs []error
	for _, c := range slices.Backward(s.closers) {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// buildServices wires fetchers, extractors and policies from flags.
// Fetcher and Renderer set on Main take precedence.
func (m *Main) buildServices(f FetchFlags, logger *slog.Logger) (*services, error) {
	s := &services{}
	client := &http.Client{Timeout: f.Timeout}

	fetcher := m.Fetcher
	if fetcher == nil {
		switch f.Backend {
		case "colly":
			opts := []colly.Option{colly.WithTimeout(f.Timeout)}
			if f.UserAgent != "" {
				opts = append(opts, colly.WithUserAgent(f.UserAgent))
			}
			fetcher = colly.NewFetcher(opts...)
		default:
			opts := []dchttp.Option{dchttp.WithTimeout(f.Timeout)}
			if f.UserAgent != "" {
				opts = append(opts, dchttp.WithUserAgent(f.UserAgent))
			}
			fetcher = dchttp.NewFetcher(opts...)
		}
		s.closers = append(s.closers, fetcher.Close)
	}

	var renderer doccrawl.RenderedFetcher
	if f.Render {
		renderer = m.Renderer
		if renderer == nil {
			r, err := rod.NewFetcher(rod.WithFetchTimeout(f.Timeout))
			if err != nil {
				return nil, fmt.Errorf("failed to start browser (Chrome or Chromium must be installed): %w", err)
			}
			renderer = r
			s.closers = append(s.closers, r.Close)
		}
		renderer = dcslog.NewLoggingRenderedFetcher(renderer, logger)
	}

	extractor := goquery.NewExtractor()
	extractor.Detector = dcslog.NewLoggingDetector(extractor.Detector, logger)
	switch f.Article {
	case "trafilatura":
		extractor.Article = trafilatura.NewLocator()
	case "readability":
		extractor.Article = readability.NewLocator()
	}

	s.detector = extractor.Detector
	s.crawler = &crawl.Crawler{
		Fetcher:     dcslog.NewLoggingFetcher(fetcher, logger),
		Extractor:   dcslog.NewLoggingExtractor(extractor, logger),
		Links:       goquery.NewLinkDiscoverer(),
		Renderer:    renderer,
		Ready:       goquery.ContentVisible(f.MinContent, goquery.DefaultReadyMinBody),
		RenderWait:  f.RenderWait,
		Concurrency: f.Concurrency,
	}
	if f.Robots {
		s.crawler.Robots = dchttp.NewRobotsPolicy(client, dchttp.DefaultRobotsAgent)
	}
	s.sitemaps = dcslog.NewLoggingSitemapService(dchttp.NewSitemapService(client), logger)

	return s, nil
}

// writeOutputs hands result to every configured artifact and the run
// history. Every artifact is attempted; failures are reported and returned
// together.
func (m *Main) writeOutputs(ctx context.Context, deps *Dependencies, o OutputFlags, result *doccrawl.CrawlResult) error {
	// Partial results of a canceled run are still written.
	ctx = context.WithoutCancel(ctx)
	var errs []error

	sink := fs.NewSink(
		fs.Output{Path: o.JSON, Formatter: fs.JSONFormatter{}},
		fs.Output{Path: o.Markdown, Formatter: markdown.NewReportFormatter(o.CodeLang)},
		fs.Output{Path: o.Failed, Formatter: fs.FailedURLFormatter{}},
	)
	if err := dcslog.NewLoggingResultWriter(sink, deps.Logger).WriteResult(ctx, result); err != nil {
		deps.Out.Warn("some outputs could not be written: %v", err)
		errs = append(errs, err)
	} else {
		for _, out := range sink.Outputs {
			deps.Out.Wrote(out.Path)
		}
	}

	if o.PagesDir != "" {
		if err := savePages(ctx, o, result); err != nil {
			deps.Out.Warn("per-page files could not be written: %v", err)
			errs = append(errs, err)
		} else {
			deps.Out.Wrote(o.PagesDir)
		}
	}

	if !o.NoHistory {
		run, err := m.recordRun(ctx, o.DB, result)
		if err != nil {
			deps.Out.Warn("run could not be recorded: %v", err)
			errs = append(errs, err)
		} else {
			deps.Out.Info("recorded run %s", run.ID)
		}
	}

	return errors.Join(errs...)
}

func (m *Main) recordRun(ctx context.Context, dbPath string, result *doccrawl.CrawlResult) (*doccrawl.Run, error) {
	runs, err := m.openRuns(dbPath)
	if err != nil {
		return nil, err
	}
	run := doccrawl.NewRun(result)
	if err := runs.CreateRun(ctx, run, result.Documents); err != nil {
		return nil, err
	}
	return run, nil
}

// savePages writes one file per document into a directory named after the
// seed host, replacing the previous contents only when every page was
// saved.
func savePages(ctx context.Context, o OutputFlags, result *doccrawl.CrawlResult) error {
	var conv doccrawl.Converter = htmltomarkdown.NewConverter()
	if o.PagesFormat == "text" {
		conv = html2text.NewConverter(false)
	}

	name := "pages"
	if u, err := url.Parse(result.Seed); err == nil && u.Hostname() != "" {
		name = u.Hostname()
	}

	return fs.SaveAll(ctx, fs.NewFileStore(o.PagesDir, name, conv), result.Documents)
}
