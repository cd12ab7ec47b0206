package webkb

// LinkEdge is a directed edge in the site's link graph.
type LinkEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Anchor string `json:"anchor,omitempty"`

	// ChunkID identifies the chunk the link originated from, when known.
	ChunkID string `json:"chunkId,omitempty"`
}

// LinkGraph aggregates edges keyed by source URL. Pages that were visited
// but emitted no PageRecord (duplicates, non-HTML) have no key here.
type LinkGraph struct {
	edges    map[string][]LinkEdge
	incoming map[string][]LinkEdge
}

// NewLinkGraph returns an empty LinkGraph.
func NewLinkGraph() *LinkGraph {
	return &LinkGraph{
		edges:    make(map[string][]LinkEdge),
		incoming: make(map[string][]LinkEdge),
	}
}

// Add records an edge and indexes it for reverse lookup.
func (g *LinkGraph) Add(edge LinkEdge) {
	g.edges[edge.Source] = append(g.edges[edge.Source], edge)
	g.incoming[edge.Target] = append(g.incoming[edge.Target], edge)
}

// Touch registers a source page with no outgoing edges, so it still appears
// as a graph key.
func (g *LinkGraph) Touch(source string) {
	if _, ok := g.edges[source]; !ok {
		g.edges[source] = []LinkEdge{}
	}
}

// Outgoing returns the edges originating at url.
func (g *LinkGraph) Outgoing(url string) []LinkEdge {
	return g.edges[url]
}

// Incoming returns the edges pointing at url. Their anchor texts describe
// how other pages refer to it.
func (g *LinkGraph) Incoming(url string) []LinkEdge {
	return g.incoming[url]
}

// HasPage reports whether url is a graph key (a page with traced edges).
func (g *LinkGraph) HasPage(url string) bool {
	_, ok := g.edges[url]
	return ok
}

// Pages returns all source URLs with traced edges.
func (g *LinkGraph) Pages() []string {
	pages := make([]string, 0, len(g.edges))
	for url := range g.edges {
		pages = append(pages, url)
	}
	return pages
}

// Len returns the total number of edges.
func (g *LinkGraph) Len() int {
	var n int
	for _, edges := range g.edges {
		n += len(edges)
	}
	return n
}

// Export returns the edge map for serialization.
func (g *LinkGraph) Export() map[string][]LinkEdge {
	return g.edges
}

// ImportEdges rebuilds a LinkGraph from a serialized edge map.
func ImportEdges(edges map[string][]LinkEdge) *LinkGraph {
	g := NewLinkGraph()
	for source, list := range edges {
		g.Touch(source)
		for _, e := range list {
			g.Add(e)
		}
	}
	return g
}
