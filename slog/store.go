package slog

import (
	"log/slog"
	"time"

	"github.com/webkb/webkb"
)

// Ensure LoggingVectorStore implements webkb.VectorStore.
var _ webkb.VectorStore = (*LoggingVectorStore)(nil)

// LoggingVectorStore wraps a VectorStore with operation logging. Search
// calls log at debug level since several fire per query.
type LoggingVectorStore struct {
	next   webkb.VectorStore
	logger *slog.Logger
}

// NewLoggingVectorStore creates a new LoggingVectorStore.
func NewLoggingVectorStore(next webkb.VectorStore, logger *slog.Logger) *LoggingVectorStore {
	return &LoggingVectorStore{next: next, logger: logger}
}

// Create delegates to the wrapped store.
func (s *LoggingVectorStore) Create(dim int) error {
	return s.next.Create(dim)
}

// Add delegates to the wrapped store and logs the batch.
func (s *LoggingVectorStore) Add(chunks []*webkb.Chunk) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("vector add",
			"chunks", len(chunks),
			"total", s.next.Len(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Add(chunks)
}

// Search delegates to the wrapped store and logs the pass.
func (s *LoggingVectorStore) Search(vector []float32, k int) (matches []webkb.Match, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("vector search",
			"k", k,
			"matches", len(matches),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(vector, k)
}

// Save delegates to the wrapped store and logs the operation.
func (s *LoggingVectorStore) Save(dir string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("index save",
			"dir", dir,
			"chunks", s.next.Len(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Save(dir)
}

// Load delegates to the wrapped store and logs the operation.
func (s *LoggingVectorStore) Load(dir string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("index load",
			"dir", dir,
			"chunks", s.next.Len(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Load(dir)
}

// Len delegates to the wrapped store.
func (s *LoggingVectorStore) Len() int {
	return s.next.Len()
}
