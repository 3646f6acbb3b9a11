package main

import (
	"regexp"

	"github.com/fwojciec/doccrawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	// Fail on configuration errors before a browser is started.
	scope, err := cfg.Scope()
	if err != nil {
		return err
	}

	svc, err := deps.Main.buildServices(c.FetchFlags, deps.Logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	if c.Sitemap {
		urls, err := svc.sitemaps.DiscoverURLs(deps.Ctx, cfg.SeedURL, scope)
		if err != nil {
			deps.Out.Warn("sitemap discovery failed: %s", doccrawl.ErrorMessage(err))
		} else {
			deps.Out.Info("found %d URLs in sitemaps", len(urls))
			cfg.ExtraSeeds = urls
		}
	}

	cp := NewCheckpointer(c.JSON, c.Checkpoint, deps.Logger)
	result, err := svc.crawler.Crawl(deps.Ctx, cfg, progressFunc(deps.Out, cp))
	if err != nil {
		return err
	}

	deps.Out.Summary(result)
	return deps.Main.writeOutputs(deps.Ctx, deps, c.OutputFlags, result)
}

// config translates flags into a CrawlConfig.
func (c *CrawlCmd) config() (doccrawl.CrawlConfig, error) {
	cfg := doccrawl.NewCrawlConfig(c.URL)
	cfg.MaxPages = c.MaxPages
	cfg.MaxDepth = c.MaxDepth
	cfg.Delay = c.Delay
	cfg.MinContentLength = c.MinContent
	cfg.Order = doccrawl.TraversalOrder(c.Order)

	switch {
	case c.PathPrefix != "":
		cfg.PathPrefix = c.PathPrefix
	case !c.AnyPath:
		cfg.PathPrefix = doccrawl.PathPrefixOf(c.URL)
	}
	if len(c.ExcludeExt) > 0 {
		cfg.ExcludedExtensions = c.ExcludeExt
	}

	filter, err := compileFilter(c.Include, c.Exclude)
	if err != nil {
		return cfg, err
	}
	cfg.Filter = filter

	return cfg, nil
}

// compileFilter builds a URLFilter from regex patterns. No patterns means
// no filter.
func compileFilter(include, exclude []string) (*doccrawl.URLFilter, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}
	f := &doccrawl.URLFilter{}
	for _, pattern := range include {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, doccrawl.Errorf(doccrawl.EINVALID, "invalid include pattern %q: %v", pattern, err)
		}
		f.Include = append(f.Include, re)
	}
	for _, pattern := range exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, doccrawl.Errorf(doccrawl.EINVALID, "invalid exclude pattern %q: %v", pattern, err)
		}
		f.Exclude = append(f.Exclude, re)
	}
	return f, nil
}
