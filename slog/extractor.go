package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/doccrawl"
)

var (
	_ doccrawl.Extractor         = (*LoggingExtractor)(nil)
	_ doccrawl.FrameworkDetector = (*LoggingDetector)(nil)
)

// LoggingExtractor wraps an Extractor with logging.
type LoggingExtractor struct {
	next   doccrawl.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next doccrawl.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs which strategy won.
func (e *LoggingExtractor) Extract(rawHTML, pageURL string, minLength int) (content *doccrawl.ExtractedContent, err error) {
	defer func(begin time.Time) {
		strategy, chars, codes := "(empty)", 0, 0
		if !content.Empty() {
			strategy = content.Strategy
			chars = len([]rune(content.Text))
			codes = len(content.CodeBlocks)
		}
		e.logger.Info("extract",
			"url", pageURL,
			"strategy", strategy,
			"chars", chars,
			"code_blocks", codes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(rawHTML, pageURL, minLength)
}

// LoggingDetector wraps a FrameworkDetector with logging.
type LoggingDetector struct {
	next   doccrawl.FrameworkDetector
	logger *slog.Logger
}

// NewLoggingDetector creates a new LoggingDetector.
func NewLoggingDetector(next doccrawl.FrameworkDetector, logger *slog.Logger) *LoggingDetector {
	return &LoggingDetector{next: next, logger: logger}
}

// Detect delegates to the wrapped detector and logs the framework found.
func (d *LoggingDetector) Detect(html string) doccrawl.Framework {
	begin := time.Now()
	framework := d.next.Detect(html)
	name := string(framework)
	if framework == doccrawl.FrameworkUnknown {
		name = "(unknown)"
	}
	d.logger.Info("framework detection",
		"framework", name,
		"duration", time.Since(begin),
	)
	return framework
}
