package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/doccrawl"
	"github.com/fwojciec/doccrawl/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var started = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newRun(seed string, startedAt time.Time) *doccrawl.Run {
	return &doccrawl.Run{
		Seed:       seed,
		State:      doccrawl.StateCompleted,
		Visited:    3,
		Documents:  2,
		Failed:     1,
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(time.Minute),
	}
}

func testDocs() []*doccrawl.Document {
	return []*doccrawl.Document{
		{URL: "https://example.com/docs/b", Title: "B", Text: "second", ContentHash: "feed", ScrapedAt: started},
		{URL: "https://example.com/docs/a", Title: "A", Text: "first", ScrapedAt: started.Add(time.Second)},
	}
}

func TestRunService_CreateRun(t *testing.T) {
	t.Parallel()

	t.Run("assigns an ID and stores the run", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		ctx := context.Background()
		run := newRun("https://example.com/docs/", started)

		require.NoError(t, svc.CreateRun(ctx, run, testDocs()))
		assert.NotEmpty(t, run.ID)

		found, err := svc.FindRunByID(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, run, found)
	})

	t.Run("keeps a caller provided ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		run := newRun("https://example.com/", started)
		run.ID = "run-1"

		require.NoError(t, svc.CreateRun(context.Background(), run, nil))
		assert.Equal(t, "run-1", run.ID)
	})

	t.Run("returns ECONFLICT for a duplicate ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		ctx := context.Background()
		run := newRun("https://example.com/", started)
		run.ID = "run-1"
		require.NoError(t, svc.CreateRun(ctx, run, nil))

		dup := newRun("https://example.com/", started)
		dup.ID = "run-1"
		err := svc.CreateRun(ctx, dup, nil)
		assert.Equal(t, doccrawl.ECONFLICT, doccrawl.ErrorCode(err))
	})

	t.Run("returns error for invalid run", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))

		err := svc.CreateRun(context.Background(), &doccrawl.Run{}, nil)
		require.Error(t, err)
		assert.Equal(t, doccrawl.EINVALID, doccrawl.ErrorCode(err))
	})

	t.Run("stores nothing when a document is invalid", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		ctx := context.Background()

		err := svc.CreateRun(ctx, newRun("https://example.com/", started), []*doccrawl.Document{{Title: "no URL"}})
		assert.Equal(t, doccrawl.EINVALID, doccrawl.ErrorCode(err))

		runs, err := svc.FindRuns(ctx, doccrawl.RunFilter{})
		require.NoError(t, err)
		assert.Empty(t, runs)
	})
}

func TestRunService_FindRunByID(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND when not found", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))

		_, err := svc.FindRunByID(context.Background(), "nonexistent-id")
		require.Error(t, err)
		assert.Equal(t, doccrawl.ENOTFOUND, doccrawl.ErrorCode(err))
	})
}

func TestRunService_FindRuns(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T, svc *sqlite.RunService) {
		t.Helper()
		ctx := context.Background()
		for i, s := range []string{"https://a.example.com/", "https://b.example.com/", "https://a.example.com/"} {
			run := newRun(s, started.Add(time.Duration(i)*time.Hour))
			if i == 1 {
				run.State = doccrawl.StateAborted
			}
			require.NoError(t, svc.CreateRun(ctx, run, nil))
		}
	}

	t.Run("returns most recent runs first", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		seed(t, svc)

		runs, err := svc.FindRuns(context.Background(), doccrawl.RunFilter{})
		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, started.Add(2*time.Hour), runs[0].StartedAt)
		assert.Equal(t, started, runs[2].StartedAt)
	})

	t.Run("filters by seed", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		seed(t, svc)

		s := "https://a.example.com/"
		runs, err := svc.FindRuns(context.Background(), doccrawl.RunFilter{Seed: &s})
		require.NoError(t, err)
		assert.Len(t, runs, 2)
	})

	t.Run("filters by state", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		seed(t, svc)

		state := doccrawl.StateAborted
		runs, err := svc.FindRuns(context.Background(), doccrawl.RunFilter{State: &state})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, "https://b.example.com/", runs[0].Seed)
	})

	t.Run("respects limit and offset", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		seed(t, svc)
		ctx := context.Background()

		runs, err := svc.FindRuns(ctx, doccrawl.RunFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, started.Add(time.Hour), runs[0].StartedAt)

		runs, err = svc.FindRuns(ctx, doccrawl.RunFilter{Offset: 2})
		require.NoError(t, err)
		assert.Len(t, runs, 1)
	})

	t.Run("returns an empty list without runs", func(t *testing.T) {
		t.Parallel()

		runs, err := sqlite.NewRunService(setupTestDB(t)).FindRuns(context.Background(), doccrawl.RunFilter{})
		require.NoError(t, err)
		assert.NotNil(t, runs)
		assert.Empty(t, runs)
	})
}

func TestRunService_FindRunDocuments(t *testing.T) {
	t.Parallel()

	t.Run("returns documents in extraction order", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		ctx := context.Background()
		run := newRun("https://example.com/docs/", started)
		require.NoError(t, svc.CreateRun(ctx, run, testDocs()))

		docs, err := svc.FindRunDocuments(ctx, run.ID)
		require.NoError(t, err)
		require.Len(t, docs, 2)

		assert.Equal(t, &doccrawl.RunDocument{
			RunID:       run.ID,
			Position:    0,
			URL:         "https://example.com/docs/b",
			Title:       "B",
			ContentHash: "feed",
			ScrapedAt:   started,
		}, docs[0])
		assert.Equal(t, 1, docs[1].Position)
		assert.Equal(t, "https://example.com/docs/a", docs[1].URL)
		assert.NotEmpty(t, docs[1].ContentHash, "missing hash should be computed")
	})

	t.Run("returns ENOTFOUND for an unknown run", func(t *testing.T) {
		t.Parallel()

		_, err := sqlite.NewRunService(setupTestDB(t)).FindRunDocuments(context.Background(), "missing")
		assert.Equal(t, doccrawl.ENOTFOUND, doccrawl.ErrorCode(err))
	})
}

func TestRunService_DeleteRun(t *testing.T) {
	t.Parallel()

	t.Run("removes the run and its documents", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()
		run := newRun("https://example.com/", started)
		require.NoError(t, svc.CreateRun(ctx, run, testDocs()))

		require.NoError(t, svc.DeleteRun(ctx, run.ID))

		_, err := svc.FindRunByID(ctx, run.ID)
		assert.Equal(t, doccrawl.ENOTFOUND, doccrawl.ErrorCode(err))

		var count int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM run_documents").Scan(&count))
		assert.Zero(t, count)
	})

	t.Run("returns ENOTFOUND when not found", func(t *testing.T) {
		t.Parallel()

		err := sqlite.NewRunService(setupTestDB(t)).DeleteRun(context.Background(), "missing")
		assert.Equal(t, doccrawl.ENOTFOUND, doccrawl.ErrorCode(err))
	})
}
