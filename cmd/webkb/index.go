package main

import (
	"fmt"

	"github.com/webkb/webkb"
	"github.com/webkb/webkb/flat"
	"github.com/webkb/webkb/goquery"
	"github.com/webkb/webkb/ingest"
	webkbslog "github.com/webkb/webkb/slog"
)

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	embedder, err := newEmbedder(deps.Ctx, c.Provider, c.Model)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webkb.ErrorMessage(err))
		return err
	}

	result, err := runIndex(deps, embedder, c.Concurrency)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webkb.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Indexed %d pages into %d chunks", result.Pages, result.Chunks)
	if result.SkippedRecords > 0 {
		fmt.Fprintf(deps.Stdout, " (%d records skipped)", result.SkippedRecords)
	}
	fmt.Fprintf(deps.Stdout, ".\nIndex written to %s. Next: webkb ask \"your question\"\n", deps.indexDir())
	return nil
}

// runIndex builds the vector index from the stored crawl artifacts. It
// is shared with the ask command's recrawl hook.
func runIndex(deps *Dependencies, embedder webkb.Embedder, concurrency int) (*ingest.Result, error) {
	pipeline := &ingest.Pipeline{
		Chunker:     goquery.NewChunker(),
		Embedder:    embedder,
		Store:       webkbslog.NewLoggingVectorStore(flat.NewStore(), deps.Logger),
		Concurrency: concurrency,
		Logger:      deps.Logger,
	}
	return pipeline.Run(deps.Ctx, deps.resultsPath(), deps.graphPath(), deps.indexDir())
}
