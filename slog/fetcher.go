// Package slog provides logging decorators for doccrawl services.
package slog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fwojciec/doccrawl"
)

var (
	_ doccrawl.Fetcher         = (*LoggingFetcher)(nil)
	_ doccrawl.RenderedFetcher = (*LoggingRenderedFetcher)(nil)
)

// LoggingFetcher wraps a Fetcher with logging. Successful fetches are
// logged at debug level, failures as warnings.
type LoggingFetcher struct {
	next   doccrawl.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next doccrawl.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (page *doccrawl.RawPage, err error) {
	defer func(begin time.Time) {
		logFetch(ctx, f.logger, "fetch", url, begin, page, err)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// LoggingRenderedFetcher is the LoggingFetcher counterpart for browser
// rendering. The readiness wait is logged as max_wait.
type LoggingRenderedFetcher struct {
	next   doccrawl.RenderedFetcher
	logger *slog.Logger
}

// NewLoggingRenderedFetcher creates a new LoggingRenderedFetcher.
func NewLoggingRenderedFetcher(next doccrawl.RenderedFetcher, logger *slog.Logger) *LoggingRenderedFetcher {
	return &LoggingRenderedFetcher{next: next, logger: logger}
}

// FetchRendered delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingRenderedFetcher) FetchRendered(ctx context.Context, url string, ready doccrawl.ReadinessFunc, maxWait time.Duration) (page *doccrawl.RawPage, err error) {
	defer func(begin time.Time) {
		logFetch(ctx, f.logger, "render", url, begin, page, err, slog.Duration("max_wait", maxWait))
	}(time.Now())
	return f.next.FetchRendered(ctx, url, ready, maxWait)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingRenderedFetcher) Close() error {
	return f.next.Close()
}

func logFetch(ctx context.Context, logger *slog.Logger, msg, url string, begin time.Time, page *doccrawl.RawPage, err error, extra ...slog.Attr) {
	attrs := append([]slog.Attr{slog.String("url", url)}, extra...)
	attrs = append(attrs, slog.Duration("duration", time.Since(begin)))

	if err != nil {
		var fe *doccrawl.FetchError
		if errors.As(err, &fe) {
			attrs = append(attrs, slog.String("kind", string(fe.Kind)))
			if fe.Status != 0 {
				attrs = append(attrs, slog.Int("status", fe.Status))
			}
		}
		attrs = append(attrs, slog.Any("err", err))
		logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
		return
	}

	if page != nil {
		attrs = append(attrs, slog.Int("status", page.Status), slog.Int("bytes", len(page.Body)))
		if page.URL != url {
			attrs = append(attrs, slog.String("final_url", page.URL))
		}
	}
	logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}
