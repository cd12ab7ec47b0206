package mock

import "github.com/webkb/webkb"

var _ webkb.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of webkb.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html, baseURL string) ([]webkb.Link, error)
}

func (e *LinkExtractor) ExtractLinks(html, baseURL string) ([]webkb.Link, error) {
	return e.ExtractLinksFn(html, baseURL)
}

var _ webkb.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of webkb.TextExtractor.
type TextExtractor struct {
	ExtractTextFn func(html string) (string, error)
}

func (e *TextExtractor) ExtractText(html string) (string, error) {
	return e.ExtractTextFn(html)
}

var _ webkb.Chunker = (*Chunker)(nil)

// Chunker is a mock implementation of webkb.Chunker.
type Chunker struct {
	ChunkFn func(url, html string) ([]*webkb.Chunk, error)
}

func (c *Chunker) Chunk(url, html string) ([]*webkb.Chunk, error) {
	return c.ChunkFn(url, html)
}
