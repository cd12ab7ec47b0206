package webkb

import "context"

// Generator turns a prompt into generated text. The model behind it is a
// black box; implementations live in openai/ and gemini/.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
