// Package robots implements webkb.RobotsGate using
// github.com/benjaminestes/robots.
package robots

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	robotstxt "github.com/benjaminestes/robots"
)

// Gate answers robots.txt questions for crawl candidates. Robots files are
// fetched once per scheme://host and cached for the lifetime of the Gate;
// a fetch or parse failure caches a nil entry, which permits everything
// for that host.
type Gate struct {
	mu     sync.Mutex
	cache  map[string]*robotstxt.Robots
	client *http.Client
	agent  string
	logger *slog.Logger
}

// NewGate returns a Gate that evaluates rules for the given user agent.
func NewGate(userAgent string, opts ...GateOption) *Gate {
	g := &Gate{
		cache:  make(map[string]*robotstxt.Robots),
		client: &http.Client{Timeout: 10 * time.Second},
		agent:  userAgent,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithHTTPClient sets the client used to fetch robots.txt files.
func WithHTTPClient(client *http.Client) GateOption {
	return func(g *Gate) {
		g.client = client
	}
}

// WithLogger sets the logger used for fetch diagnostics.
func WithLogger(logger *slog.Logger) GateOption {
	return func(g *Gate) {
		g.logger = logger
	}
}

// Allowed reports whether rawURL may be fetched under the host's
// robots.txt rules.
func (g *Gate) Allowed(ctx context.Context, rawURL string) bool {
	robotsURL, err := robotstxt.Locate(rawURL)
	if err != nil {
		return true
	}

	g.mu.Lock()
	r, cached := g.cache[robotsURL]
	g.mu.Unlock()

	if !cached {
		r = g.fetch(ctx, robotsURL)
		g.mu.Lock()
		g.cache[robotsURL] = r
		g.mu.Unlock()
	}

	if r == nil {
		return true
	}
	return r.Test(g.agent, rawURL)
}

func (g *Gate) fetch(ctx context.Context, robotsURL string) *robotstxt.Robots {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", g.agent)

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("failed to fetch robots.txt, assuming allowed", "url", robotsURL, "err", err)
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		g.logger.Warn("failed to read robots.txt, assuming allowed", "url", robotsURL, "err", err)
		return nil
	}

	r, err := robotstxt.From(resp.StatusCode, bytes.NewReader(body))
	if err != nil {
		g.logger.Warn("failed to parse robots.txt, assuming allowed", "url", robotsURL, "err", err)
		return nil
	}
	return r
}
