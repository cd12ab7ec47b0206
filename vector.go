package webkb

// Match is a single search hit: the stored chunk, its internal position in
// the index, and the raw similarity score. No score filtering happens at
// this layer.
type Match struct {
	ID    int
	Score float32
	Chunk *Chunk
}

// VectorStore is the narrow index contract the retrieval engine consumes.
//
// Create must be called before Add. Add strips embeddings from stored
// chunks; each chunk is retrievable by its assigned internal position, and
// a key-to-position table (keyed by Chunk.Key) is maintained in memory and
// rebuilt deterministically on Load, never persisted. Save and Load persist
// the index and metadata as a companion pair; loading with either half
// missing must fail rather than silently proceed empty.
type VectorStore interface {
	Create(dim int) error
	Add(chunks []*Chunk) error

	// Search returns up to k nearest chunks by similarity, best first.
	Search(vector []float32, k int) ([]Match, error)

	Save(dir string) error
	Load(dir string) error

	// Len returns the number of stored chunks.
	Len() int
}
