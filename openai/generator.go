package openai

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"github.com/webkb/webkb"
)

// DefaultChatModel is used when no model is configured.
const DefaultChatModel = openai.GPT4oMini

// Ensure Generator implements webkb.Generator.
var _ webkb.Generator = (*Generator)(nil)

// Generator produces completions via the OpenAI chat API.
type Generator struct {
	client *openai.Client
	model  string
}

// NewGenerator creates a Generator for the given chat model.
func NewGenerator(apiKey string, model string) (*Generator, error) {
	if apiKey == "" {
		return nil, webkb.Errorf(webkb.EINVALID, "OpenAI API key required")
	}
	if model == "" {
		model = DefaultChatModel
	}
	return &Generator{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// Generate returns the model's completion for prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", webkb.Errorf(webkb.EUNAVAILABLE, "OpenAI chat request failed: %v", err)
	}
	if len(resp.Choices) == 0 {
		return "", webkb.Errorf(webkb.EINTERNAL, "no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
