package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/webkb/webkb"
)

// Compile-time interface verification.
var _ webkb.RunService = (*RunService)(nil)

// RunService implements webkb.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun records the start of a crawl run.
func (s *RunService) CreateRun(ctx context.Context, run *webkb.CrawlRun) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, seed_url, pages, edges, duplicates, failures, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, '')
	`, run.ID, run.SeedURL, run.Pages, run.Edges, run.Duplicates, run.Failures,
		run.StartedAt.Format(time.RFC3339))

	return err
}

// FinishRun stores the run's final counters and finish time.
func (s *RunService) FinishRun(ctx context.Context, run *webkb.CrawlRun) error {
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET pages = ?, edges = ?, duplicates = ?, failures = ?, finished_at = ?
		WHERE id = ?
	`, run.Pages, run.Edges, run.Duplicates, run.Failures,
		run.FinishedAt.Format(time.RFC3339), run.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return webkb.Errorf(webkb.ENOTFOUND, "crawl run not found")
	}
	return nil
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*webkb.CrawlRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seed_url, pages, edges, duplicates, failures, started_at, finished_at
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return nil, webkb.Errorf(webkb.ENOTFOUND, "crawl run not found")
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// FindRuns retrieves all runs, most recent first.
func (s *RunService) FindRuns(ctx context.Context) ([]*webkb.CrawlRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seed_url, pages, edges, duplicates, failures, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*webkb.CrawlRun
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// DeleteRun permanently removes a run; its page entries cascade.
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
		return webkb.Errorf(webkb.ENOTFOUND, "crawl run not found")
	}
	return nil
}

// CreatePage records a fetched page within a run.
func (s *RunService) CreatePage(ctx context.Context, page *webkb.PageEntry) error {
	if page.RunID == "" {
		return webkb.Errorf(webkb.EINVALID, "page entry run ID required")
	}
	if page.URL == "" {
		return webkb.Errorf(webkb.EINVALID, "page entry URL required")
	}

	page.ID = uuid.New().String()
	if page.FetchedAt.IsZero() {
		page.FetchedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pages (id, run_id, url, content_hash, length, duplicate, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, page.ID, page.RunID, page.URL, page.ContentHash, page.Length, boolToInt(page.Duplicate),
		page.FetchedAt.Format(time.RFC3339))

	return err
}

// FindPages retrieves a run's pages in fetch order.
func (s *RunService) FindPages(ctx context.Context, runID string) ([]*webkb.PageEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, url, content_hash, length, duplicate, fetched_at
		FROM pages
		WHERE run_id = ?
		ORDER BY fetched_at ASC, id ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*webkb.PageEntry
	for rows.Next() {
		var page webkb.PageEntry
		var duplicate int
		var fetchedAt string
		if err := rows.Scan(&page.ID, &page.RunID, &page.URL, &page.ContentHash, &page.Length,
			&duplicate, &fetchedAt); err != nil {
			return nil, err
		}
		page.Duplicate = duplicate != 0
		page.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at")
		if err != nil {
			return nil, err
		}
		pages = append(pages, &page)
	}
	return pages, rows.Err()
}

// scanRun scans a run row from either sql.Row or sql.Rows.
func scanRun(scan func(dest ...any) error) (*webkb.CrawlRun, error) {
	var run webkb.CrawlRun
	var startedAt, finishedAt string

	if err := scan(&run.ID, &run.SeedURL, &run.Pages, &run.Edges, &run.Duplicates, &run.Failures,
		&startedAt, &finishedAt); err != nil {
		return nil, err
	}

	var err error
	run.StartedAt, err = parseRFC3339(startedAt, "started_at")
	if err != nil {
		return nil, err
	}
	if finishedAt != "" {
		run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at")
		if err != nil {
			return nil, err
		}
	}
	return &run, nil
}

// parseRFC3339 parses an RFC3339 formatted timestamp string.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
