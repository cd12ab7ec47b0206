// Package flat implements webkb.VectorStore as a flat cosine-similarity
// index held in memory and persisted as a pair of companion files.
package flat

import (
	"encoding/gob"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/webkb/webkb"
)

// File names for the persisted index. Both files must be present for a
// load to succeed; the key table is rebuilt from metadata, never stored.
const (
	indexFile    = "index.gob"
	metadataFile = "metadata.json"
)

// Ensure Store implements webkb.VectorStore.
var _ webkb.VectorStore = (*Store)(nil)

// Store is a flat vector index: every query scans all vectors and ranks
// them by cosine similarity. Positions are assigned in insertion order
// and double as result IDs.
type Store struct {
	dim     int
	vectors [][]float32
	chunks  []*webkb.Chunk
	keys    map[string]int
}

// NewStore returns an empty, uninitialized Store. Create or Load must be
// called before Add or Search.
func NewStore() *Store {
	return &Store{}
}

// Create initializes the index for vectors of the given dimension.
func (s *Store) Create(dim int) error {
	if dim <= 0 {
		return webkb.Errorf(webkb.EINVALID, "vector dimension must be positive, got %d", dim)
	}
	s.dim = dim
	s.vectors = nil
	s.chunks = nil
	s.keys = make(map[string]int)
	return nil
}

// Add appends chunks to the index. Embeddings are moved into the index
// and cleared from the stored metadata so they are not persisted twice.
func (s *Store) Add(chunks []*webkb.Chunk) error {
	if s.keys == nil {
		return webkb.Errorf(webkb.EINVALID, "store must be created before adding vectors")
	}
	for _, chunk := range chunks {
		if len(chunk.Embedding) != s.dim {
			return webkb.Errorf(webkb.EINVALID, "embedding dimension %d does not match index dimension %d", len(chunk.Embedding), s.dim)
		}
	}
	for _, chunk := range chunks {
		stored := *chunk
		vector := stored.Embedding
		stored.Embedding = nil

		pos := len(s.vectors)
		s.vectors = append(s.vectors, vector)
		s.chunks = append(s.chunks, &stored)
		s.keys[stored.Key()] = pos
	}
	return nil
}

// Search returns the k most similar chunks to vector, ranked by cosine
// similarity descending. Ties keep insertion order. No score threshold is
// applied here.
func (s *Store) Search(vector []float32, k int) ([]webkb.Match, error) {
	if s.keys == nil {
		return nil, webkb.Errorf(webkb.EINTERNAL, "store is not initialized")
	}
	if len(vector) != s.dim {
		return nil, webkb.Errorf(webkb.EINVALID, "query dimension %d does not match index dimension %d", len(vector), s.dim)
	}
	if k <= 0 || len(s.vectors) == 0 {
		return nil, nil
	}

	matches := make([]webkb.Match, 0, len(s.vectors))
	for i, v := range s.vectors {
		matches = append(matches, webkb.Match{
			ID:    i,
			Score: cosine(vector, v),
			Chunk: s.chunks[i],
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if k < len(matches) {
		matches = matches[:k]
	}
	return matches, nil
}

// Len returns the number of indexed chunks.
func (s *Store) Len() int {
	return len(s.chunks)
}

// Position returns the index position for a chunk key.
func (s *Store) Position(key string) (int, bool) {
	pos, ok := s.keys[key]
	return pos, ok
}

// indexPayload is the gob-encoded half of the persisted pair.
type indexPayload struct {
	Dim     int
	Vectors [][]float32
}

// Save writes the index and its chunk metadata to dir. Both files are
// fully written to temporary paths before either is renamed into place,
// so a failed write never touches an existing pair. A crash between the
// two renames can still leave a new index beside old metadata; Load's
// length check rejects such a pair unless both halves happen to hold the
// same number of entries.
func (s *Store) Save(dir string) error {
	if s.keys == nil {
		return webkb.Errorf(webkb.EINVALID, "store must be created before saving")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return webkb.Errorf(webkb.EINTERNAL, "failed to create index directory: %v", err)
	}

	tmp, err := os.CreateTemp(dir, indexFile+".tmp-*")
	if err != nil {
		return webkb.Errorf(webkb.EINTERNAL, "failed to create temp index file: %v", err)
	}
	if err := gob.NewEncoder(tmp).Encode(indexPayload{Dim: s.dim, Vectors: s.vectors}); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return webkb.Errorf(webkb.EINTERNAL, "failed to encode index: %v", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return webkb.Errorf(webkb.EINTERNAL, "failed to close temp index file: %v", err)
	}

	data, err := json.Marshal(s.chunks)
	if err != nil {
		os.Remove(tmp.Name())
		return webkb.Errorf(webkb.EINTERNAL, "failed to encode metadata: %v", err)
	}
	tmpMeta, err := os.CreateTemp(dir, metadataFile+".tmp-*")
	if err != nil {
		os.Remove(tmp.Name())
		return webkb.Errorf(webkb.EINTERNAL, "failed to create temp metadata file: %v", err)
	}
	if _, err := tmpMeta.Write(data); err != nil {
		tmpMeta.Close()
		os.Remove(tmpMeta.Name())
		os.Remove(tmp.Name())
		return webkb.Errorf(webkb.EINTERNAL, "failed to write metadata: %v", err)
	}
	if err := tmpMeta.Close(); err != nil {
		os.Remove(tmpMeta.Name())
		os.Remove(tmp.Name())
		return webkb.Errorf(webkb.EINTERNAL, "failed to close temp metadata file: %v", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(dir, indexFile)); err != nil {
		os.Remove(tmp.Name())
		os.Remove(tmpMeta.Name())
		return webkb.Errorf(webkb.EINTERNAL, "failed to replace index file: %v", err)
	}
	if err := os.Rename(tmpMeta.Name(), filepath.Join(dir, metadataFile)); err != nil {
		os.Remove(tmpMeta.Name())
		return webkb.Errorf(webkb.EINTERNAL, "failed to replace metadata file: %v", err)
	}

	return nil
}

// Load reads a persisted index pair from dir, replacing the Store's
// contents. The key table is rebuilt from the loaded metadata.
func (s *Store) Load(dir string) error {
	indexPath := filepath.Join(dir, indexFile)
	metaPath := filepath.Join(dir, metadataFile)

	f, err := os.Open(indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			return webkb.Errorf(webkb.ENOTFOUND, "index file %q not found", indexPath)
		}
		return webkb.Errorf(webkb.EINTERNAL, "failed to open index file: %v", err)
	}
	defer f.Close()

	var payload indexPayload
	if err := gob.NewDecoder(f).Decode(&payload); err != nil {
		return webkb.Errorf(webkb.EINTERNAL, "failed to decode index: %v", err)
	}

	data, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return webkb.Errorf(webkb.ENOTFOUND, "metadata file %q not found", metaPath)
		}
		return webkb.Errorf(webkb.EINTERNAL, "failed to read metadata file: %v", err)
	}
	var chunks []*webkb.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return webkb.Errorf(webkb.EINTERNAL, "failed to decode metadata: %v", err)
	}

	if len(chunks) != len(payload.Vectors) {
		return webkb.Errorf(webkb.EINTERNAL, "index holds %d vectors but metadata holds %d chunks", len(payload.Vectors), len(chunks))
	}

	s.dim = payload.Dim
	s.vectors = payload.Vectors
	s.chunks = chunks
	s.keys = make(map[string]int, len(chunks))
	for i, chunk := range chunks {
		s.keys[chunk.Key()] = i
	}
	return nil
}

// cosine computes cosine similarity between two equal-length vectors.
// Zero vectors score zero.
func cosine(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
