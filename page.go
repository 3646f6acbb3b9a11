package doccrawl

import "context"

// PageStore persists per-page files with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type PageStore interface {
	Save(ctx context.Context, doc *Document) error
	Commit() error
	Abort() error
}
