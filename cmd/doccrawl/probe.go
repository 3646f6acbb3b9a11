package main

import (
	"fmt"
	"unicode/utf8"

	"github.com/fwojciec/doccrawl"
)

// Run executes the probe command. It fetches one page, reports what the
// extraction cascade makes of it and, with --render, whether the browser
// finds more content than the plain fetch.
func (c *ProbeCmd) Run(deps *Dependencies) error {
	cfg := doccrawl.NewCrawlConfig(c.URL)
	cfg.PathPrefix = doccrawl.PathPrefixOf(c.URL)
	scope, err := cfg.Scope()
	if err != nil {
		return err
	}

	svc, err := deps.Main.buildServices(c.FetchFlags, deps.Logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	page, err := svc.crawler.Fetcher.Fetch(deps.Ctx, c.URL)
	if err != nil {
		deps.Out.Failed(c.URL, err)
		return err
	}

	framework := svc.detector.Detect(page.Body)
	if framework == doccrawl.FrameworkUnknown {
		framework = "unknown"
	}
	fmt.Fprintf(deps.Stdout, "%s\n", page.URL)
	fmt.Fprintf(deps.Stdout, "  framework: %s\n", framework)

	plain, err := c.describe(deps, svc, "plain", page)
	if err != nil {
		return err
	}

	links, err := svc.crawler.Links.DiscoverLinks(page.Body, page.URL, scope)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "  links in scope: %d\n", len(links))

	if svc.crawler.Renderer == nil {
		return nil
	}
	rendered, err := svc.crawler.Renderer.FetchRendered(deps.Ctx, c.URL, svc.crawler.Ready, c.RenderWait)
	if err != nil {
		deps.Out.Failed(c.URL, err)
		return err
	}
	full, err := c.describe(deps, svc, "rendered", rendered)
	if err != nil {
		return err
	}
	if full > plain {
		deps.Out.Info("rendering finds %d more characters; crawl with --render", full-plain)
	}
	return nil
}

// describe prints the extraction of page and returns its text length.
func (c *ProbeCmd) describe(deps *Dependencies, svc *services, label string, page *doccrawl.RawPage) (int, error) {
	content, err := svc.crawler.Extractor.Extract(page.Body, page.URL, c.MinContent)
	if err != nil {
		return 0, err
	}
	if content.Empty() {
		fmt.Fprintf(deps.Stdout, "  %s: no content (title %q)\n", label, content.Title)
		return 0, nil
	}
	n := utf8.RuneCountInString(content.Text)
	fmt.Fprintf(deps.Stdout, "  %s: %s strategy, %d chars, %d code blocks (title %q)\n",
		label, content.Strategy, n, len(content.CodeBlocks), content.Title)
	return n, nil
}
