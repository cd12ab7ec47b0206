// Package openai implements the embedding and generation interfaces using
// github.com/sashabaranov/go-openai.
package openai

import (
	"context"
	"math"

	openai "github.com/sashabaranov/go-openai"

	"github.com/webkb/webkb"
)

// DefaultEmbeddingModel is used when no model is configured.
const DefaultEmbeddingModel = "text-embedding-3-small"

// Ensure Embedder implements webkb.Embedder.
var _ webkb.Embedder = (*Embedder)(nil)

// Embedder generates L2-normalized embeddings via the OpenAI API.
type Embedder struct {
	client *openai.Client
	model  string
	dim    int
}

// NewEmbedder creates an Embedder for the given model. The dimension is
// fixed by the model: 3072 for text-embedding-3-large, 1536 otherwise.
func NewEmbedder(apiKey string, model string) (*Embedder, error) {
	if apiKey == "" {
		return nil, webkb.Errorf(webkb.EINVALID, "OpenAI API key required")
	}
	if model == "" {
		model = DefaultEmbeddingModel
	}

	dim := 1536
	if model == "text-embedding-3-large" {
		dim = 3072
	}

	return &Embedder{
		client: openai.NewClient(apiKey),
		model:  model,
		dim:    dim,
	}, nil
}

// Embed returns the embedding vector for text, normalized to unit length
// so cosine similarity reduces to a dot product.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, webkb.Errorf(webkb.EINVALID, "cannot embed empty text")
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, webkb.Errorf(webkb.EUNAVAILABLE, "OpenAI embeddings request failed: %v", err)
	}
	if len(resp.Data) == 0 {
		return nil, webkb.Errorf(webkb.EINTERNAL, "no embedding data returned")
	}

	v := make([]float32, len(resp.Data[0].Embedding))
	copy(v, resp.Data[0].Embedding)
	l2normalize(v)
	return v, nil
}

// Dimension returns the embedding dimension for the configured model.
func (e *Embedder) Dimension() int {
	return e.dim
}

// l2normalize normalizes a vector to unit length in place.
func l2normalize(v []float32) {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range v {
		v[i] *= inv
	}
}
