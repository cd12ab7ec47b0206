package mock

import (
	"context"

	"github.com/webkb/webkb"
)

var _ webkb.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of webkb.Embedder.
type Embedder struct {
	EmbedFn     func(ctx context.Context, text string) ([]float32, error)
	DimensionFn func() int
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedFn(ctx, text)
}

func (e *Embedder) Dimension() int {
	return e.DimensionFn()
}

var _ webkb.Generator = (*Generator)(nil)

// Generator is a mock implementation of webkb.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, prompt string) (string, error)
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.GenerateFn(ctx, prompt)
}
