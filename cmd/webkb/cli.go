package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/webkb/webkb"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	DataDir  string
	Runs     webkb.RunService
	Sitemaps webkb.SitemapService
}

// Crawl artifact locations under the data directory.
func (d *Dependencies) resultsPath() string { return filepath.Join(d.DataDir, "results.jsonl") }
func (d *Dependencies) graphPath() string   { return filepath.Join(d.DataDir, "graph.json") }
func (d *Dependencies) indexDir() string    { return filepath.Join(d.DataDir, "index") }

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Crawl  CrawlCmd  `cmd:"" help:"Crawl a website into local artifacts"`
	Index  IndexCmd  `cmd:"" help:"Chunk, embed and index the crawled pages"`
	Ask    AskCmd    `cmd:"" help:"Ask a question against the index"`
	List   ListCmd   `cmd:"" help:"List crawl runs"`
	Docs   DocsCmd   `cmd:"" help:"List pages recorded for a crawl run"`
	Delete DeleteCmd `cmd:"" help:"Delete a crawl run and its page entries"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL       string `arg:"" optional:"" help:"Seed URL (overrides config start_url)"`
	Config    string `short:"c" help:"TOML config file path"`
	Force     bool   `short:"f" help:"Re-crawl even if results already exist"`
	Sitemap   bool   `short:"s" help:"Seed additional URLs from the site's sitemap"`
	MaxDepth  int    `default:"-2" help:"Override max crawl depth (-1 for unbounded)"`
	Extractor string `default:"trafilatura" enum:"trafilatura,goquery" help:"Text extractor for content dedup"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	Provider    string `short:"p" default:"openai" enum:"openai,gemini" help:"Embedding provider"`
	Model       string `short:"m" help:"Embedding model (provider default if empty)"`
	Concurrency int    `default:"8" help:"Concurrent embedding limit"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to ask about the crawled site"`
	Config   string `short:"c" help:"TOML config file path (for tunables and recrawl)"`
	Provider string `short:"p" default:"openai" enum:"openai,gemini" help:"Embedding and generation provider"`
	Model    string `short:"m" help:"Generation model (provider default if empty)"`
	Recrawl  bool   `help:"Re-crawl and re-index once if nothing is found"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// DocsCmd is the "docs" subcommand.
type DocsCmd struct {
	RunID string `arg:"" help:"Crawl run ID"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	RunID string `arg:"" help:"Crawl run ID"`
	Force bool   `help:"Confirm deletion"`
}
