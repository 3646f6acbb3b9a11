package main

import (
	"bufio"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/fwojciec/doccrawl"
	"github.com/fwojciec/doccrawl/crawl"
)

// Run executes the retry command. Every URL of the file is fetched as a
// seed, with backoff retries, and no links are followed.
func (c *RetryCmd) Run(deps *Dependencies) error {
	urls, err := readURLList(c.File)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		deps.Out.Info("no URLs to retry in %s", c.File)
		return nil
	}

	svc, err := deps.Main.buildServices(c.FetchFlags, deps.Logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	svc.crawler.Fetcher = &crawl.RetryFetcher{
		Fetcher: svc.crawler.Fetcher,
		OnRetry: func(u string, retry int, wait time.Duration, err error) {
			deps.Out.Info("  retry %d for %s in %s: %v", retry, u, wait, err)
		},
	}

	cp := NewCheckpointer(c.JSON, c.Checkpoint, deps.Logger)
	progress := progressFunc(deps.Out, cp)

	var merged *doccrawl.CrawlResult
	for _, group := range groupByHost(urls) {
		cfg := doccrawl.NewCrawlConfig(group[0])
		cfg.ExtraSeeds = group[1:]
		cfg.MaxPages = len(group)
		cfg.MaxDepth = 0
		cfg.Delay = c.Delay
		cfg.MinContentLength = c.MinContent
		cfg.ExcludedExtensions = []string{}

		result, err := svc.crawler.Crawl(deps.Ctx, cfg, progress)
		if err != nil {
			deps.Out.Warn("cannot retry %s: %s", group[0], doccrawl.ErrorMessage(err))
			continue
		}
		merged = mergeResults(merged, result)
		if result.State == doccrawl.StateAborted {
			break
		}
	}
	if merged == nil {
		return doccrawl.Errorf(doccrawl.EINVALID, "no URL in %s could be retried", c.File)
	}

	deps.Out.Summary(merged)
	return deps.Main.writeOutputs(deps.Ctx, deps, c.OutputFlags, merged)
}

// readURLList reads one URL per line, skipping blank lines and lines
// starting with #.
func readURLList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || seen[line] {
			continue
		}
		seen[line] = true
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

// groupByHost splits urls into per-host groups, keeping first-seen order
// of hosts and of URLs within a host.
func groupByHost(urls []string) [][]string {
	var hosts []string
	groups := make(map[string][]string)
	for _, raw := range urls {
		host := raw
		if u, err := url.Parse(raw); err == nil && u.Host != "" {
			host = strings.ToLower(u.Host)
		}
		if _, ok := groups[host]; !ok {
			hosts = append(hosts, host)
		}
		groups[host] = append(groups[host], raw)
	}

	out := make([][]string, 0, len(hosts))
	for _, h := range hosts {
		out = append(out, groups[h])
	}
	return out
}

// mergeResults appends the pages of next to acc. The first result's seed
// and start time are kept.
func mergeResults(acc, next *doccrawl.CrawlResult) *doccrawl.CrawlResult {
	if acc == nil {
		return next
	}
	acc.Documents = append(acc.Documents, next.Documents...)
	acc.FailedURLs = append(acc.FailedURLs, next.FailedURLs...)
	acc.Visited = append(acc.Visited, next.Visited...)
	acc.Skipped = append(acc.Skipped, next.Skipped...)
	acc.FinishedAt = next.FinishedAt
	if next.State == doccrawl.StateAborted {
		acc.State = doccrawl.StateAborted
	}
	return acc
}
