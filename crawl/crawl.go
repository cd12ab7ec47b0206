// Package crawl provides the site traversal engine: frontier management,
// policy filtering, exclusion-protocol compliance, content-hash
// deduplication, and link-graph construction.
package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/webkb/webkb"
)

// Stats holds the counters for one crawl run.
type Stats struct {
	Fetched     int // pages fetched successfully
	Emitted     int // page records emitted via the callback
	Duplicates  int // pages rejected by content hash
	Blacklisted int // URLs blacklisted after transport failure
	Skipped     int // policy, robots and content-type rejections
}

// Traverser walks a site from a seed URL, invoking the page callback for
// each policy-allowed, non-duplicate HTML page and recording link edges.
//
// A Traverser owns its visited set, blacklist and content deduper, so
// separate runs use separate instances; nothing is shared globally.
type Traverser struct {
	Config  webkb.CrawlConfig
	Fetcher webkb.Fetcher
	Links   webkb.LinkExtractor
	Text    webkb.TextExtractor

	// Robots, Limiter, OnVisit and Logger are optional.
	Robots  webkb.RobotsGate
	Limiter webkb.DomainLimiter
	OnVisit func(entry webkb.PageEntry)
	Logger  *slog.Logger

	policy    *Policy
	visited   map[string]struct{}
	blacklist map[string]struct{}
	deduper   *ContentDeduper
	graph     *webkb.LinkGraph
	stats     Stats
}

// Stats returns the counters accumulated by the last Crawl call.
func (t *Traverser) Stats() Stats {
	return t.stats
}

// Crawl walks the site starting at seed and returns the link graph.
// In whole-site mode the frontier is a FIFO queue scoped to the seed's
// host; otherwise traversal is depth-bounded by Config.MaxDepth (-1 means
// unbounded). A seed that fails policy or robots checks yields an empty
// graph and no error.
func (t *Traverser) Crawl(ctx context.Context, seed string, onPage webkb.PageFunc) (*webkb.LinkGraph, error) {
	if seed == "" {
		seed = t.Config.StartURL
	}
	cfg := t.Config
	cfg.StartURL = seed
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, err := NewPolicy(t.Config)
	if err != nil {
		return nil, err
	}
	t.policy = policy
	t.visited = make(map[string]struct{})
	t.blacklist = make(map[string]struct{})
	t.deduper = NewContentDeduper()
	t.graph = webkb.NewLinkGraph()
	t.stats = Stats{}

	if t.Logger == nil {
		t.Logger = slog.Default()
	}

	if t.Config.WholeSite {
		t.crawlSite(ctx, seed, onPage)
	} else {
		t.crawlBounded(ctx, seed, onPage)
	}

	return t.graph, nil
}

// crawlSite is whole-site mode: a FIFO frontier with no depth cutoff,
// scoped to the seed's host.
func (t *Traverser) crawlSite(ctx context.Context, seed string, onPage webkb.PageFunc) {
	seedHost := hostOf(seed)

	frontier := NewFrontier()
	frontier.Push(webkb.FrontierEntry{URL: seed})
	for _, u := range t.Config.SeedURLs {
		frontier.Push(webkb.FrontierEntry{URL: u})
	}

	for {
		if ctx.Err() != nil {
			return
		}
		entry, ok := frontier.Pop()
		if !ok {
			return
		}
		links, expand := t.visit(ctx, entry.URL, onPage)
		if !expand {
			continue
		}
		for _, link := range links {
			if hostOf(link.URL) != seedHost {
				continue
			}
			frontier.Push(webkb.FrontierEntry{URL: link.URL})
		}
	}
}

// crawlBounded is depth-bounded mode. It is iterative with an explicit
// stack so deep or cyclic sites cannot exhaust the call stack.
func (t *Traverser) crawlBounded(ctx context.Context, seed string, onPage webkb.PageFunc) {
	stack := []webkb.FrontierEntry{{URL: seed}}
	for _, u := range t.Config.SeedURLs {
		stack = append(stack, webkb.FrontierEntry{URL: u})
	}

	for len(stack) > 0 {
		if ctx.Err() != nil {
			return
		}
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if t.Config.MaxDepth >= 0 && entry.Depth > t.Config.MaxDepth {
			continue
		}

		links, expand := t.visit(ctx, entry.URL, onPage)
		if !expand {
			continue
		}
		for _, link := range links {
			stack = append(stack, webkb.FrontierEntry{URL: link.URL, Depth: entry.Depth + 1})
		}
	}
}

// visit processes one URL. It returns the page's policy-passing outgoing
// links and whether they should be expanded. Duplicate pages are dead
// ends: they are visited but contribute no record and no edges.
func (t *Traverser) visit(ctx context.Context, rawURL string, onPage webkb.PageFunc) ([]webkb.Link, bool) {
	rawURL = stripFragment(rawURL)

	if _, ok := t.visited[rawURL]; ok {
		return nil, false
	}
	if _, ok := t.blacklist[rawURL]; ok {
		return nil, false
	}
	if !t.policy.Allowed(rawURL) {
		t.stats.Skipped++
		return nil, false
	}
	if t.Robots != nil && !t.Robots.Allowed(ctx, rawURL) {
		t.Logger.Debug("disallowed by robots.txt", "url", rawURL)
		t.stats.Skipped++
		return nil, false
	}

	// Mark visited before the fetch so a URL is dispatched at most once.
	t.visited[rawURL] = struct{}{}

	if t.Limiter != nil {
		if err := t.Limiter.Wait(ctx, hostOf(rawURL)); err != nil {
			return nil, false
		}
	}

	t.Logger.Debug("fetching", "url", rawURL)
	html, contentType, err := t.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		// Transport failures are blacklisted for the rest of the run and
		// never retried in-run.
		t.Logger.Warn("fetch failed, blacklisting", "url", rawURL, "err", err)
		t.blacklist[rawURL] = struct{}{}
		t.stats.Blacklisted++
		return nil, false
	}
	t.stats.Fetched++

	if !strings.Contains(contentType, "text/html") {
		t.Logger.Debug("skipping non-HTML content", "url", rawURL, "contentType", contentType)
		t.stats.Skipped++
		return nil, false
	}

	text, err := t.Text.ExtractText(html)
	if err != nil {
		t.stats.Skipped++
		return nil, false
	}

	hash, firstURL, duplicate := t.deduper.Check(text, rawURL)
	if t.OnVisit != nil {
		t.OnVisit(webkb.PageEntry{
			URL:         rawURL,
			ContentHash: hash,
			Length:      len(html),
			Duplicate:   t.Config.Deduplicate && duplicate,
			FetchedAt:   time.Now().UTC(),
		})
	}
	if t.Config.Deduplicate && duplicate {
		t.Logger.Debug("duplicate content", "url", rawURL, "first", firstURL)
		t.stats.Duplicates++
		return nil, false
	}

	links, err := t.Links.ExtractLinks(html, rawURL)
	if err != nil {
		links = nil
	}

	if onPage != nil {
		if record := onPage(rawURL, html); record != nil {
			t.stats.Emitted++
		}
	}

	t.graph.Touch(rawURL)
	allowed := links[:0:0]
	for _, link := range links {
		target := stripFragment(link.URL)
		if !t.policy.Allowed(target) {
			continue
		}
		t.graph.Add(webkb.LinkEdge{Source: rawURL, Target: target, Anchor: link.Anchor})
		allowed = append(allowed, webkb.Link{URL: target, Anchor: link.Anchor})
	}

	return allowed, true
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
