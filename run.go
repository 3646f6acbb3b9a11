package doccrawl

import (
	"context"
	"time"
)

// Run is a recorded crawl.
type Run struct {
	ID         string     `json:"id"`
	Seed       string     `json:"seed"`
	State      CrawlState `json:"state"`
	Visited    int        `json:"visited"`
	Documents  int        `json:"documents"`
	Failed     int        `json:"failed"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt time.Time  `json:"finishedAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.Seed == "" {
		return Errorf(EINVALID, "run seed required")
	}
	if r.State == "" {
		return Errorf(EINVALID, "run state required")
	}
	return nil
}

// NewRun returns a run record describing result. The ID is left for the
// RunService to assign.
func NewRun(result *CrawlResult) *Run {
	s := result.Summary()
	return &Run{
		Seed:       result.Seed,
		State:      result.State,
		Visited:    s.PagesVisited,
		Documents:  s.DocumentsExtracted,
		Failed:     s.FailedCount,
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
	}
}

// RunDocument is a document recorded as part of a run.
type RunDocument struct {
	RunID       string    `json:"runId"`
	Position    int       `json:"position"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	ContentHash string    `json:"contentHash"`
	ScrapedAt   time.Time `json:"scrapedAt"`
}

// RunService records crawl runs and the documents they produced.
type RunService interface {
	// CreateRun records a run and its documents in one transaction.
	// Assigns run.ID if empty.
	CreateRun(ctx context.Context, run *Run, docs []*Document) error

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs matching the filter, most recent first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// FindRunDocuments retrieves the documents of a run in extraction order.
	// Returns ENOTFOUND if the run does not exist.
	FindRunDocuments(ctx context.Context, runID string) ([]*RunDocument, error)

	// DeleteRun removes a run and its documents.
	// Returns ENOTFOUND if the run does not exist.
	DeleteRun(ctx context.Context, id string) error
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	Seed  *string     `json:"seed"`
	State *CrawlState `json:"state"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
