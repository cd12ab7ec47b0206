package mock

import (
	"context"

	"github.com/webkb/webkb"
)

var _ webkb.RunService = (*RunService)(nil)

// RunService is a mock implementation of webkb.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, run *webkb.CrawlRun) error
	FinishRunFn   func(ctx context.Context, run *webkb.CrawlRun) error
	FindRunByIDFn func(ctx context.Context, id string) (*webkb.CrawlRun, error)
	FindRunsFn    func(ctx context.Context) ([]*webkb.CrawlRun, error)
	DeleteRunFn   func(ctx context.Context, id string) error
	CreatePageFn  func(ctx context.Context, page *webkb.PageEntry) error
	FindPagesFn   func(ctx context.Context, runID string) ([]*webkb.PageEntry, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *webkb.CrawlRun) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FinishRun(ctx context.Context, run *webkb.CrawlRun) error {
	return s.FinishRunFn(ctx, run)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*webkb.CrawlRun, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context) ([]*webkb.CrawlRun, error) {
	return s.FindRunsFn(ctx)
}

func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	return s.DeleteRunFn(ctx, id)
}

func (s *RunService) CreatePage(ctx context.Context, page *webkb.PageEntry) error {
	return s.CreatePageFn(ctx, page)
}

func (s *RunService) FindPages(ctx context.Context, runID string) ([]*webkb.PageEntry, error) {
	return s.FindPagesFn(ctx, runID)
}

var _ webkb.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of webkb.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *webkb.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *webkb.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
