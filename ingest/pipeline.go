// Package ingest turns persisted crawl artifacts into a searchable vector
// index: it chunks page records, enriches chunks with link-graph context,
// embeds them concurrently, and stores the result.
package ingest

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/webkb/webkb"
	"github.com/webkb/webkb/fs"
)

// DefaultConcurrency bounds concurrent embedding requests.
const DefaultConcurrency = 8

// DefaultRetryDelays returns the backoff delays for embedding retries:
// 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Pipeline builds a vector index from a results file and a graph file.
type Pipeline struct {
	Chunker  webkb.Chunker
	Embedder webkb.Embedder
	Store    webkb.VectorStore

	// Concurrency bounds parallel embedding calls; zero means
	// DefaultConcurrency.
	Concurrency int

	// RetryDelays configures embedding retry backoff; nil means
	// DefaultRetryDelays.
	RetryDelays []time.Duration

	Logger *slog.Logger
}

// Result summarizes one ingest run.
type Result struct {
	Pages          int
	Chunks         int
	SkippedRecords int
}

// Run reads the crawl artifacts at resultsPath and graphPath, chunks and
// embeds every page, and saves the index to indexDir. A missing graph
// file degrades to an index without link context rather than failing.
func (p *Pipeline) Run(ctx context.Context, resultsPath, graphPath, indexDir string) (*Result, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	records, skipped, err := fs.ReadResults(resultsPath)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		logger.Warn("skipped malformed result lines", "count", skipped)
	}

	graph, err := fs.ReadGraph(graphPath)
	if err != nil {
		if webkb.ErrorCode(err) != webkb.ENOTFOUND {
			return nil, err
		}
		logger.Warn("graph file not found, indexing without link context", "path", graphPath)
		graph = webkb.NewLinkGraph()
	}

	if err := p.Store.Create(p.Embedder.Dimension()); err != nil {
		return nil, err
	}

	result := &Result{SkippedRecords: skipped}
	var chunks []*webkb.Chunk
	for _, record := range records {
		if err := record.Validate(); err != nil {
			logger.Warn("skipping invalid page record", "url", record.URL, "err", err)
			result.SkippedRecords++
			continue
		}

		pageChunks, err := p.Chunker.Chunk(record.URL, record.HTML)
		if err != nil {
			logger.Warn("skipping unchunkable page", "url", record.URL, "err", err)
			result.SkippedRecords++
			continue
		}
		for _, chunk := range pageChunks {
			chunk.Metadata = linkContext(graph, record.URL)
		}
		chunks = append(chunks, pageChunks...)
		result.Pages++
	}

	if err := p.embedAll(ctx, chunks); err != nil {
		return nil, err
	}

	if err := p.Store.Add(chunks); err != nil {
		return nil, err
	}
	if err := p.Store.Save(indexDir); err != nil {
		return nil, err
	}

	result.Chunks = len(chunks)
	logger.Info("index built", "pages", result.Pages, "chunks", result.Chunks, "dir", indexDir)
	return result, nil
}

// embedAll embeds chunks concurrently, bounded by Concurrency. Chunk
// order is preserved because each goroutine writes only its own chunk.
func (p *Pipeline) embedAll(ctx context.Context, chunks []*webkb.Chunk) error {
	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	delays := p.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, chunk := range chunks {
		g.Go(func() error {
			vector, err := embedWithRetry(ctx, p.Embedder, chunk.Text, delays)
			if err != nil {
				return webkb.Errorf(webkb.EUNAVAILABLE, "failed to embed chunk %s: %v", chunk.Key(), err)
			}
			chunk.Embedding = vector
			return nil
		})
	}
	return g.Wait()
}

// embedWithRetry attempts an embedding with backoff delays between
// attempts.
func embedWithRetry(ctx context.Context, embedder webkb.Embedder, text string, delays []time.Duration) ([]float32, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		vector, err := embedder.Embed(ctx, text)
		if err == nil {
			return vector, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}

// linkContext collects a page's link-graph surroundings for chunk
// metadata: where it points and what anchor text points at it.
func linkContext(graph *webkb.LinkGraph, pageURL string) webkb.ChunkMetadata {
	meta := webkb.ChunkMetadata{PageURL: pageURL}
	for _, edge := range graph.Outgoing(pageURL) {
		meta.OutgoingLinks = append(meta.OutgoingLinks, webkb.LinkRef{URL: edge.Target, Anchor: edge.Anchor})
	}
	for _, edge := range graph.Incoming(pageURL) {
		meta.IncomingLinks = append(meta.IncomingLinks, webkb.LinkRef{URL: edge.Source, Anchor: edge.Anchor})
	}
	return meta
}
