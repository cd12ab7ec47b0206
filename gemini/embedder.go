package gemini

import (
	"context"

	"google.golang.org/genai"

	"github.com/webkb/webkb"
)

// DefaultEmbeddingModel is used when no model is configured.
const DefaultEmbeddingModel = "gemini-embedding-001"

// embeddingDimension is the output dimension requested from the API so
// Gemini and OpenAI small-model indexes stay interchangeable.
const embeddingDimension = 1536

// Ensure Embedder implements webkb.Embedder at compile time.
var _ webkb.Embedder = (*Embedder)(nil)

// Embedder generates embeddings using Google Gemini.
type Embedder struct {
	client *genai.Client
	model  string
}

// NewEmbedder creates a new Embedder.
func NewEmbedder(client *genai.Client, model string) *Embedder {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &Embedder{client: client, model: model}
}

// Embed returns the embedding vector for text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, webkb.Errorf(webkb.EINVALID, "cannot embed empty text")
	}

	dim := int32(embeddingDimension)
	result, err := e.client.Models.EmbedContent(ctx, e.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: text}},
		}},
		&genai.EmbedContentConfig{OutputDimensionality: &dim},
	)
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Embeddings) == 0 {
		return nil, webkb.Errorf(webkb.EINTERNAL, "gemini returned no embeddings")
	}
	return result.Embeddings[0].Values, nil
}

// Dimension returns the embedding dimension.
func (e *Embedder) Dimension() int {
	return embeddingDimension
}
