package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/doccrawl"
)

var _ doccrawl.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with logging. Sitemaps are
// optional, so a failed discovery is a warning.
type LoggingSitemapService struct {
	next   doccrawl.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next doccrawl.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service and logs the seeds found
// for the scope.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, scope *doccrawl.Scope) (urls []string, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", baseURL}
		if scope != nil {
			attrs = append(attrs, "host", scope.Host, "prefix", scope.PathPrefix)
		}
		attrs = append(attrs, "seeds", len(urls), "duration", time.Since(begin))
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelWarn
			attrs = append(attrs, "err", err)
		}
		s.logger.Log(ctx, level, "sitemap discovery", attrs...)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, scope)
}
