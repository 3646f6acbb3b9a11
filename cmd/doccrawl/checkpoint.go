package main

import (
	"log/slog"

	"github.com/fwojciec/doccrawl"
	"github.com/fwojciec/doccrawl/fs"
)

// Checkpointer rewrites the JSON output every few documents so that an
// interrupted run leaves a valid partial file behind. A nil Checkpointer
// does nothing.
type Checkpointer struct {
	path   string
	every  int
	logger *slog.Logger

	docs   []*doccrawl.Document
	writes int
}

// NewCheckpointer returns a Checkpointer writing to path every n documents,
// or nil when path is empty or n is not positive.
func NewCheckpointer(path string, n int, logger *slog.Logger) *Checkpointer {
	if path == "" || n <= 0 {
		return nil
	}
	return &Checkpointer{path: path, every: n, logger: logger}
}

// Add records doc and writes a checkpoint when due.
func (c *Checkpointer) Add(doc *doccrawl.Document) {
	if c == nil || doc == nil {
		return
	}
	c.docs = append(c.docs, doc)
	if len(c.docs)%c.every != 0 {
		return
	}
	if err := c.write(); err != nil {
		c.logger.Warn("checkpoint failed", "path", c.path, "err", err)
	}
}

// Writes returns the number of checkpoints written.
func (c *Checkpointer) Writes() int {
	if c == nil {
		return 0
	}
	return c.writes
}

func (c *Checkpointer) write() error {
	data, err := fs.JSONFormatter{}.FormatResult(&doccrawl.CrawlResult{Documents: c.docs})
	if err != nil {
		return err
	}
	if err := fs.WriteFileAtomic(c.path, data, 0o644); err != nil {
		return err
	}
	c.writes++
	return nil
}
