package webkb

import (
	"context"
	"time"
)

// CrawlRun is the catalog record for one crawl: the seed, when it ran, and
// what it produced.
type CrawlRun struct {
	ID         string    `json:"id"`
	SeedURL    string    `json:"seedUrl"`
	Pages      int       `json:"pages"`
	Edges      int       `json:"edges"`
	Duplicates int       `json:"duplicates"`
	Failures   int       `json:"failures"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *CrawlRun) Validate() error {
	if r.SeedURL == "" {
		return Errorf(EINVALID, "crawl run seed URL required")
	}
	return nil
}

// PageEntry is the catalog record for one fetched page within a run.
type PageEntry struct {
	ID          string    `json:"id"`
	RunID       string    `json:"runId"`
	URL         string    `json:"url"`
	ContentHash string    `json:"contentHash"`
	Length      int       `json:"length"`
	Duplicate   bool      `json:"duplicate"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// RunService represents a service for crawl-run bookkeeping.
type RunService interface {
	// CreateRun records the start of a crawl run.
	CreateRun(ctx context.Context, run *CrawlRun) error

	// FinishRun stores the run's final counters and finish time.
	// Returns ENOTFOUND if the run does not exist.
	FinishRun(ctx context.Context, run *CrawlRun) error

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*CrawlRun, error)

	// FindRuns retrieves all runs, most recent first.
	FindRuns(ctx context.Context) ([]*CrawlRun, error)

	// DeleteRun permanently removes a run and its page entries.
	// Returns ENOTFOUND if the run does not exist.
	DeleteRun(ctx context.Context, id string) error

	// CreatePage records a fetched page within a run.
	CreatePage(ctx context.Context, page *PageEntry) error

	// FindPages retrieves a run's pages in fetch order.
	FindPages(ctx context.Context, runID string) ([]*PageEntry, error)
}
