package mock

import (
	"context"

	"github.com/fwojciec/doccrawl"
)

var _ doccrawl.RunService = (*RunService)(nil)

// RunService is a mock implementation of doccrawl.RunService.
type RunService struct {
	CreateRunFn        func(ctx context.Context, run *doccrawl.Run, docs []*doccrawl.Document) error
	FindRunByIDFn      func(ctx context.Context, id string) (*doccrawl.Run, error)
	FindRunsFn         func(ctx context.Context, filter doccrawl.RunFilter) ([]*doccrawl.Run, error)
	FindRunDocumentsFn func(ctx context.Context, runID string) ([]*doccrawl.RunDocument, error)
	DeleteRunFn        func(ctx context.Context, id string) error
}

func (s *RunService) CreateRun(ctx context.Context, run *doccrawl.Run, docs []*doccrawl.Document) error {
	return s.CreateRunFn(ctx, run, docs)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*doccrawl.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter doccrawl.RunFilter) ([]*doccrawl.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) FindRunDocuments(ctx context.Context, runID string) ([]*doccrawl.RunDocument, error) {
	return s.FindRunDocumentsFn(ctx, runID)
}

func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	return s.DeleteRunFn(ctx, id)
}
