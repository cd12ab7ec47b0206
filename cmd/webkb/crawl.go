package main

import (
	"fmt"
	"os"

	"github.com/webkb/webkb"
	"github.com/webkb/webkb/crawl"
	"github.com/webkb/webkb/fs"
	"github.com/webkb/webkb/goquery"
	webkbhttp "github.com/webkb/webkb/http"
	"github.com/webkb/webkb/robots"
	webkbslog "github.com/webkb/webkb/slog"
	"github.com/webkb/webkb/toml"
	"github.com/webkb/webkb/trafilatura"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	cfg, _, err := loadConfig(c.Config)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webkb.ErrorMessage(err))
		return err
	}
	if c.URL != "" {
		cfg.StartURL = c.URL
	}
	if c.MaxDepth != -2 {
		cfg.MaxDepth = c.MaxDepth
		cfg.WholeSite = false
	}

	// An existing result set is reused unless the caller forces a
	// re-crawl.
	if !c.Force {
		if _, err := os.Stat(deps.resultsPath()); err == nil {
			fmt.Fprintf(deps.Stdout, "Results already exist at %s; use --force to re-crawl.\n", deps.resultsPath())
			return nil
		}
	}

	run, stats, err := runCrawl(deps, cfg, c.Sitemap, newTextExtractor(c.Extractor))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webkb.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Crawled %s: %d pages (%d duplicates, %d failures), %d edges.\n",
		cfg.StartURL, stats.Emitted, stats.Duplicates, stats.Blacklisted, run.Edges)
	fmt.Fprintf(deps.Stdout, "Run %s recorded. Next: webkb index\n", run.ID)
	return nil
}

// newTextExtractor maps an extractor name to its implementation.
// Trafilatura hashes only the main content, so pages differing just in
// navigation chrome dedup together; the goquery extractor hashes the
// whole visible text.
func newTextExtractor(name string) webkb.TextExtractor {
	if name == "goquery" {
		return goquery.NewTextExtractor()
	}
	return trafilatura.NewExtractor()
}

// runCrawl performs one full crawl: optional sitemap seeding, traversal
// with results and catalog bookkeeping, and graph persistence. It is
// shared with the ask command's recrawl hook.
func runCrawl(deps *Dependencies, cfg webkb.CrawlConfig, useSitemap bool, text webkb.TextExtractor) (*webkb.CrawlRun, crawl.Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, crawl.Stats{}, err
	}

	if useSitemap {
		filter, err := webkb.CompileURLFilter(cfg.AllowPatterns, cfg.BlockPatterns)
		if err != nil {
			return nil, crawl.Stats{}, err
		}
		seeds, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, cfg.StartURL, filter)
		if err != nil {
			deps.Logger.Warn("sitemap discovery failed, continuing without seeds", "err", err)
		} else {
			cfg.SeedURLs = append(cfg.SeedURLs, seeds...)
		}
	}

	run := &webkb.CrawlRun{SeedURL: cfg.StartURL}
	if err := deps.Runs.CreateRun(deps.Ctx, run); err != nil {
		return nil, crawl.Stats{}, err
	}

	writer, err := fs.NewResultsWriter(deps.resultsPath())
	if err != nil {
		return nil, crawl.Stats{}, err
	}

	fetcher := webkbslog.NewLoggingFetcher(
		webkbhttp.NewFetcher(
			webkbhttp.WithTimeout(cfg.Timeout),
			webkbhttp.WithUserAgent(cfg.UserAgent),
		),
		deps.Logger,
	)

	traverser := &crawl.Traverser{
		Config:  cfg,
		Fetcher: fetcher,
		Links:   goquery.NewLinkExtractor(),
		Text:    text,
		Limiter: crawl.NewDomainLimiter(cfg.Delay),
		Logger:  deps.Logger,
		OnVisit: func(entry webkb.PageEntry) {
			entry.RunID = run.ID
			if err := deps.Runs.CreatePage(deps.Ctx, &entry); err != nil {
				deps.Logger.Warn("failed to record page entry", "url", entry.URL, "err", err)
			}
		},
	}
	if cfg.RespectRobots {
		traverser.Robots = robots.NewGate(cfg.UserAgent, robots.WithLogger(deps.Logger))
	}

	onPage := func(url, html string) *webkb.PageRecord {
		record := &webkb.PageRecord{URL: url, HTML: html, Length: len(html)}
		if err := writer.Write(record); err != nil {
			deps.Logger.Warn("failed to write page record", "url", url, "err", err)
			return nil
		}
		return record
	}

	graph, err := traverser.Crawl(deps.Ctx, cfg.StartURL, onPage)
	if closeErr := writer.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, crawl.Stats{}, err
	}

	if err := fs.WriteGraph(deps.graphPath(), graph); err != nil {
		return nil, crawl.Stats{}, err
	}

	stats := traverser.Stats()
	run.Pages = stats.Emitted
	run.Edges = graph.Len()
	run.Duplicates = stats.Duplicates
	run.Failures = stats.Blacklisted
	if err := deps.Runs.FinishRun(deps.Ctx, run); err != nil {
		return nil, crawl.Stats{}, err
	}

	return run, stats, nil
}

// loadConfig reads the TOML config at path, or returns defaults when no
// path is given.
func loadConfig(path string) (webkb.CrawlConfig, webkb.RetrieveConfig, error) {
	if path == "" {
		return webkb.DefaultCrawlConfig(), webkb.DefaultRetrieveConfig(), nil
	}
	return toml.Load(path)
}
