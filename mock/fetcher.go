// Package mock provides function-field mock implementations of the webkb
// service interfaces for tests.
package mock

import (
	"context"

	"github.com/webkb/webkb"
)

var _ webkb.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of webkb.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, string, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, string, error) {
	return f.FetchFn(ctx, url)
}

var _ webkb.RobotsGate = (*RobotsGate)(nil)

// RobotsGate is a mock implementation of webkb.RobotsGate.
type RobotsGate struct {
	AllowedFn func(ctx context.Context, url string) bool
}

func (g *RobotsGate) Allowed(ctx context.Context, url string) bool {
	return g.AllowedFn(ctx, url)
}
