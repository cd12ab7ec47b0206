package webkb

// Origin identifies the retrieval pass a result came from.
type Origin string

// Retrieval pass origins, in decreasing priority at equal adjusted score.
const (
	OriginInitial     Origin = "initial"
	OriginRewrite     Origin = "rewrite"
	OriginGraphAnchor Origin = "graph-anchor"
	OriginSection     Origin = "section"
)

// Direct reports whether the origin is a direct question pass (initial or
// rewrite) rather than an expansion pass.
func (o Origin) Direct() bool {
	return o == OriginInitial || o == OriginRewrite
}

// RetrievalResult is a chunk with its similarity score and provenance.
// Results are transient: created per query, discarded after it completes.
type RetrievalResult struct {
	Chunk *Chunk

	// Score is the highest raw similarity across all passes that
	// returned this chunk.
	Score float32

	// Origins holds one tag per pass the chunk appeared in.
	Origins []Origin

	// Rank is the result's position within its first originating pass,
	// starting at 0.
	Rank int
}

// HasOrigin reports whether the result carries the given provenance tag.
func (r *RetrievalResult) HasOrigin(o Origin) bool {
	for _, origin := range r.Origins {
		if origin == o {
			return true
		}
	}
	return false
}

// AddOrigin appends a provenance tag if not already present.
func (r *RetrievalResult) AddOrigin(o Origin) {
	if !r.HasOrigin(o) {
		r.Origins = append(r.Origins, o)
	}
}

// AssembledContext is the section-grouped context string built from a
// bounded subset of results, plus the sources actually included in it.
type AssembledContext struct {
	Text string

	// Sources are the URLs of chunks included in Text, in first-use order.
	// They are the only valid basis for "read more" links.
	Sources []string

	// ChunkIDs identifies the chunks included in Text.
	ChunkIDs []string
}
