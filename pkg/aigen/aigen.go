package aigen

import "context"

// Request describes a single generation call.
type Request struct {
	// System is an optional system instruction that frames the model's role.
	System string

	// Prompt is the user prompt. Required.
	Prompt string

	// MaxTokens caps the completion length. Zero means provider default.
	MaxTokens int

	// Temperature controls sampling randomness. Nil means provider default.
	Temperature *float64
}

// Generator produces a text completion for a request.
type Generator interface {
	// Generate returns the completion text for the request.
	Generate(ctx context.Context, req Request) (string, error)

	// Model returns the model identifier this implementation calls.
	Model() string
}
