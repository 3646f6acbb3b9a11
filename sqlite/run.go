package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/doccrawl"
	"github.com/google/uuid"
)

var _ doccrawl.RunService = (*RunService)(nil)

// RunService implements doccrawl.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// contentHash returns the document hash, computing it from the text when
// the crawler left it empty.
func contentHash(doc *doccrawl.Document) string {
	if doc.ContentHash != "" {
		return doc.ContentHash
	}
	return strconv.FormatUint(xxhash.Sum64String(doc.Text), 16)
}

// CreateRun records run and its documents in one transaction.
func (s *RunService) CreateRun(ctx context.Context, run *doccrawl.Run, docs []*doccrawl.Document) error {
	if err := run.Validate(); err != nil {
		return err
	}
	for _, doc := range docs {
		if err := doc.Validate(); err != nil {
			return err
		}
	}

	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO runs (id, seed, state, visited, documents, failed, started_at, finished_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, run.ID, run.Seed, string(run.State), run.Visited, run.Documents, run.Failed,
			formatTime(run.StartedAt), formatTime(run.FinishedAt))
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return doccrawl.Errorf(doccrawl.ECONFLICT, "run %s already exists", run.ID)
			}
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO run_documents (run_id, position, url, title, content_hash, scraped_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, doc := range docs {
			if _, err := stmt.ExecContext(ctx, run.ID, i, doc.URL, doc.Title, contentHash(doc), formatTime(doc.ScrapedAt)); err != nil {
				return err
			}
		}
		return nil
	})
}

const runColumns = "id, seed, state, visited, documents, failed, started_at, finished_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*doccrawl.Run, error) {
	var run doccrawl.Run
	var state, startedAt, finishedAt string

	if err := row.Scan(&run.ID, &run.Seed, &state, &run.Visited, &run.Documents, &run.Failed,
		&startedAt, &finishedAt); err != nil {
		return nil, err
	}
	run.State = doccrawl.CrawlState(state)

	var err error
	if run.StartedAt, err = parseTime(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseTime(finishedAt, "finished_at"); err != nil {
		return nil, err
	}
	return &run, nil
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*doccrawl.Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, doccrawl.Errorf(doccrawl.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// FindRuns retrieves runs matching the filter, most recent first.
func (s *RunService) FindRuns(ctx context.Context, filter doccrawl.RunFilter) ([]*doccrawl.Run, error) {
	q := selectQuery{
		from:  "SELECT " + runColumns + " FROM runs",
		order: "started_at DESC, rowid DESC",
	}
	if filter.Seed != nil {
		q.where("seed = ?", *filter.Seed)
	}
	if filter.State != nil {
		q.where("state = ?", string(*filter.State))
	}
	query, args := q.build(filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*doccrawl.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// FindRunDocuments retrieves the documents of a run in extraction order.
func (s *RunService) FindRunDocuments(ctx context.Context, runID string) ([]*doccrawl.RunDocument, error) {
	if _, err := s.FindRunByID(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, position, url, title, content_hash, scraped_at
		FROM run_documents
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []*doccrawl.RunDocument{}
	for rows.Next() {
		var doc doccrawl.RunDocument
		var scrapedAt string
		if err := rows.Scan(&doc.RunID, &doc.Position, &doc.URL, &doc.Title, &doc.ContentHash, &scrapedAt); err != nil {
			return nil, err
		}
		if doc.ScrapedAt, err = parseTime(scrapedAt, "scraped_at"); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}

	return docs, rows.Err()
}

// DeleteRun permanently removes a run and its documents.
func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return doccrawl.Errorf(doccrawl.ENOTFOUND, "run not found")
	}

	return nil
}
