package ingest_test

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/webkb/webkb"
	"github.com/webkb/webkb/fs"
	"github.com/webkb/webkb/ingest"
	"github.com/webkb/webkb/mock"
)

// writeArtifacts persists a results file and graph file for the given
// pages and edges, returning their paths plus an index directory.
func writeArtifacts(t *testing.T, records []*webkb.PageRecord, edges []webkb.LinkEdge) (string, string, string) {
	t.Helper()
	dir := t.TempDir()
	resultsPath := filepath.Join(dir, "results.jsonl")
	graphPath := filepath.Join(dir, "graph.json")

	w, err := fs.NewResultsWriter(resultsPath)
	require.NoError(t, err)
	for _, r := range records {
		require.NoError(t, w.Write(r))
	}
	require.NoError(t, w.Close())

	graph := webkb.NewLinkGraph()
	for _, e := range edges {
		graph.Add(e)
	}
	require.NoError(t, fs.WriteGraph(graphPath, graph))

	return resultsPath, graphPath, filepath.Join(dir, "index")
}

// memoryStore is a minimal in-memory VectorStore for pipeline tests.
func memoryStore(added *[]*webkb.Chunk, saved *string) *mock.VectorStore {
	return &mock.VectorStore{
		CreateFn: func(dim int) error { return nil },
		AddFn: func(chunks []*webkb.Chunk) error {
			*added = append(*added, chunks...)
			return nil
		},
		SaveFn: func(dir string) error {
			*saved = dir
			return nil
		},
		LenFn: func() int { return 0 },
	}
}

func oneChunkPerPage() *mock.Chunker {
	return &mock.Chunker{
		ChunkFn: func(url, html string) ([]*webkb.Chunk, error) {
			return []*webkb.Chunk{{ID: url + "#0", URL: url, Text: html}}, nil
		},
	}
}

func unitEmbedder() *mock.Embedder {
	return &mock.Embedder{
		EmbedFn:     func(_ context.Context, text string) ([]float32, error) { return []float32{1, 0}, nil },
		DimensionFn: func() int { return 2 },
	}
}

func TestPipeline_Run(t *testing.T) {
	t.Parallel()

	t.Run("chunks, embeds and saves every page", func(t *testing.T) {
		t.Parallel()

		resultsPath, graphPath, indexDir := writeArtifacts(t, []*webkb.PageRecord{
			{URL: "https://example.com/a", HTML: "alpha", Length: 5},
			{URL: "https://example.com/b", HTML: "beta", Length: 4},
		}, nil)

		var added []*webkb.Chunk
		var saved string
		p := &ingest.Pipeline{
			Chunker:  oneChunkPerPage(),
			Embedder: unitEmbedder(),
			Store:    memoryStore(&added, &saved),
		}

		result, err := p.Run(context.Background(), resultsPath, graphPath, indexDir)
		require.NoError(t, err)
		require.Equal(t, 2, result.Pages)
		require.Equal(t, 2, result.Chunks)
		require.Len(t, added, 2)
		require.Equal(t, indexDir, saved)
		for _, chunk := range added {
			require.Equal(t, []float32{1, 0}, chunk.Embedding)
		}
	})

	t.Run("enriches chunks with link-graph context", func(t *testing.T) {
		t.Parallel()

		resultsPath, graphPath, indexDir := writeArtifacts(t, []*webkb.PageRecord{
			{URL: "https://example.com/docs", HTML: "docs", Length: 4},
		}, []webkb.LinkEdge{
			{Source: "https://example.com/", Target: "https://example.com/docs", Anchor: "Documentation"},
			{Source: "https://example.com/docs", Target: "https://example.com/api", Anchor: "API"},
		})

		var added []*webkb.Chunk
		var saved string
		p := &ingest.Pipeline{
			Chunker:  oneChunkPerPage(),
			Embedder: unitEmbedder(),
			Store:    memoryStore(&added, &saved),
		}

		_, err := p.Run(context.Background(), resultsPath, graphPath, indexDir)
		require.NoError(t, err)
		require.Len(t, added, 1)

		meta := added[0].Metadata
		require.Equal(t, "https://example.com/docs", meta.PageURL)
		require.Equal(t, []webkb.LinkRef{{URL: "https://example.com/api", Anchor: "API"}}, meta.OutgoingLinks)
		require.Equal(t, []webkb.LinkRef{{URL: "https://example.com/", Anchor: "Documentation"}}, meta.IncomingLinks)
	})

	t.Run("a missing graph file degrades to no link context", func(t *testing.T) {
		t.Parallel()

		resultsPath, _, indexDir := writeArtifacts(t, []*webkb.PageRecord{
			{URL: "https://example.com/a", HTML: "alpha", Length: 5},
		}, nil)

		var added []*webkb.Chunk
		var saved string
		p := &ingest.Pipeline{
			Chunker:  oneChunkPerPage(),
			Embedder: unitEmbedder(),
			Store:    memoryStore(&added, &saved),
		}

		result, err := p.Run(context.Background(), resultsPath, filepath.Join(t.TempDir(), "missing.json"), indexDir)
		require.NoError(t, err)
		require.Equal(t, 1, result.Chunks)
		require.Empty(t, added[0].Metadata.OutgoingLinks)
	})

	t.Run("a missing results file fails", func(t *testing.T) {
		t.Parallel()

		p := &ingest.Pipeline{
			Chunker:  oneChunkPerPage(),
			Embedder: unitEmbedder(),
			Store:    memoryStore(&[]*webkb.Chunk{}, new(string)),
		}
		_, err := p.Run(context.Background(), filepath.Join(t.TempDir(), "missing.jsonl"), "", "")
		require.Error(t, err)
		require.Equal(t, webkb.ENOTFOUND, webkb.ErrorCode(err))
	})

	t.Run("unchunkable pages are skipped and counted", func(t *testing.T) {
		t.Parallel()

		resultsPath, graphPath, indexDir := writeArtifacts(t, []*webkb.PageRecord{
			{URL: "https://example.com/good", HTML: "fine", Length: 4},
			{URL: "https://example.com/bad", HTML: "broken", Length: 6},
		}, nil)

		var added []*webkb.Chunk
		var saved string
		p := &ingest.Pipeline{
			Chunker: &mock.Chunker{
				ChunkFn: func(url, html string) ([]*webkb.Chunk, error) {
					if strings.Contains(url, "bad") {
						return nil, webkb.Errorf(webkb.EINVALID, "unparseable page")
					}
					return []*webkb.Chunk{{ID: url + "#0", URL: url, Text: html}}, nil
				},
			},
			Embedder: unitEmbedder(),
			Store:    memoryStore(&added, &saved),
		}

		result, err := p.Run(context.Background(), resultsPath, graphPath, indexDir)
		require.NoError(t, err)
		require.Equal(t, 1, result.Pages)
		require.Equal(t, 1, result.SkippedRecords)
	})

	t.Run("persistent embedding failure aborts the run", func(t *testing.T) {
		t.Parallel()

		resultsPath, graphPath, indexDir := writeArtifacts(t, []*webkb.PageRecord{
			{URL: "https://example.com/a", HTML: "alpha", Length: 5},
		}, nil)

		p := &ingest.Pipeline{
			Chunker: oneChunkPerPage(),
			Embedder: &mock.Embedder{
				EmbedFn:     func(context.Context, string) ([]float32, error) { return nil, fmt.Errorf("quota exceeded") },
				DimensionFn: func() int { return 2 },
			},
			Store:       memoryStore(&[]*webkb.Chunk{}, new(string)),
			RetryDelays: []time.Duration{time.Millisecond},
		}

		_, err := p.Run(context.Background(), resultsPath, graphPath, indexDir)
		require.Error(t, err)
		require.Equal(t, webkb.EUNAVAILABLE, webkb.ErrorCode(err))
	})

	t.Run("embedding retries after transient failures", func(t *testing.T) {
		t.Parallel()

		resultsPath, graphPath, indexDir := writeArtifacts(t, []*webkb.PageRecord{
			{URL: "https://example.com/a", HTML: "alpha", Length: 5},
		}, nil)

		var attempts int
		var added []*webkb.Chunk
		var saved string
		p := &ingest.Pipeline{
			Chunker: oneChunkPerPage(),
			Embedder: &mock.Embedder{
				EmbedFn: func(context.Context, string) ([]float32, error) {
					attempts++
					if attempts < 3 {
						return nil, fmt.Errorf("transient")
					}
					return []float32{1, 0}, nil
				},
				DimensionFn: func() int { return 2 },
			},
			Store:       memoryStore(&added, &saved),
			Concurrency: 1,
			RetryDelays: []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond},
		}

		result, err := p.Run(context.Background(), resultsPath, graphPath, indexDir)
		require.NoError(t, err)
		require.Equal(t, 3, attempts)
		require.Equal(t, 1, result.Chunks)
	})
}
