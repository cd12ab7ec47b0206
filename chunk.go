package webkb

import "fmt"

// Chunk is a bounded span of a page's extracted text, the unit of embedding
// and retrieval. Once embedded and stored it is immutable.
type Chunk struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Index int    `json:"index"`
	Text  string `json:"text"`

	// Hierarchy is the ordered list of enclosing headings, outermost first.
	Hierarchy []string `json:"hierarchy,omitempty"`

	Embedding []float32 `json:"embedding,omitempty"`

	Metadata ChunkMetadata `json:"metadata,omitempty"`
}

// ChunkMetadata carries graph-derived context attached during ingest.
type ChunkMetadata struct {
	PageURL string `json:"page_url,omitempty"`

	// OutgoingLinks are this page's edges; IncomingLinks are edges pointing
	// at this page. Incoming anchor texts feed graph-aware retrieval.
	OutgoingLinks []LinkRef `json:"outgoing_links,omitempty"`
	IncomingLinks []LinkRef `json:"incoming_links,omitempty"`
}

// LinkRef is a compact edge reference stored in chunk metadata.
type LinkRef struct {
	URL    string `json:"url"`
	Anchor string `json:"anchor,omitempty"`
}

// Key returns the chunk's canonical identity: its ID when set, otherwise
// url + chunk index.
func (c *Chunk) Key() string {
	if c.ID != "" {
		return c.ID
	}
	return fmt.Sprintf("%s#%d", c.URL, c.Index)
}

// TopHeading returns the outermost enclosing heading, or "General" when the
// chunk has no hierarchy.
func (c *Chunk) TopHeading() string {
	if len(c.Hierarchy) == 0 || c.Hierarchy[0] == "" {
		return "General"
	}
	return c.Hierarchy[0]
}

// Validate returns an error if the chunk contains invalid fields.
func (c *Chunk) Validate() error {
	if c.URL == "" {
		return Errorf(EINVALID, "chunk URL required")
	}
	if c.Text == "" {
		return Errorf(EINVALID, "chunk text required")
	}
	return nil
}

// Chunker splits a page's HTML into semantically bounded chunks.
type Chunker interface {
	Chunk(url, html string) ([]*Chunk, error)
}
