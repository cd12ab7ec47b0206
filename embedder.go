package webkb

import "context"

// Embedder turns text into a fixed-dimension vector. The model behind it is
// a black box; implementations live in openai/ and gemini/.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the length of vectors produced by Embed.
	Dimension() int
}
