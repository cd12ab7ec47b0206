// Package gemini implements the embedding and generation interfaces using
// Google Gemini via google.golang.org/genai.
package gemini

import (
	"context"

	"google.golang.org/genai"

	"github.com/webkb/webkb"
)

// DefaultChatModel is used when no model is configured.
const DefaultChatModel = "gemini-2.5-flash"

// Ensure Generator implements webkb.Generator at compile time.
var _ webkb.Generator = (*Generator)(nil)

// Generator produces completions using Google Gemini.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator creates a new Generator.
func NewGenerator(client *genai.Client, model string) *Generator {
	if model == "" {
		model = DefaultChatModel
	}
	return &Generator{client: client, model: model}
}

// Generate returns the model's completion for prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	temp := float32(0.4)
	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		&genai.GenerateContentConfig{Temperature: &temp},
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", webkb.Errorf(webkb.EINTERNAL, "gemini returned nil result")
	}
	return result.Text(), nil
}
