package aigen

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Google model constants.
const (
	GoogleGemini2Flash = "gemini-2.0-flash"
	GoogleGemini2Pro   = "gemini-2.0-pro"
)

// Google implements the Generator interface using the Gemini API.
type Google struct {
	client    *genai.Client
	model     string
	grounding bool
	backend   genai.Backend
	project   string
	location  string
}

// GoogleOption is a functional option for configuring Google.
type GoogleOption func(*Google)

// WithGoogleModel sets the model to use.
func WithGoogleModel(model string) GoogleOption {
	return func(g *Google) {
		g.model = model
	}
}

// WithGoogleSearchGrounding enables Google Search grounding so the model can
// pull in fresh public data. Used by lead discovery.
func WithGoogleSearchGrounding() GoogleOption {
	return func(g *Google) {
		g.grounding = true
	}
}

// WithGoogleBackend sets the backend (Gemini API or Vertex AI).
func WithGoogleBackend(backend genai.Backend) GoogleOption {
	return func(g *Google) {
		g.backend = backend
	}
}

// WithGoogleProject sets the GCP project for Vertex AI.
func WithGoogleProject(project string) GoogleOption {
	return func(g *Google) {
		g.project = project
	}
}

// WithGoogleLocation sets the GCP location/region for Vertex AI.
func WithGoogleLocation(location string) GoogleOption {
	return func(g *Google) {
		g.location = location
	}
}

// NewGoogle creates a new Google generator with Gemini API and API key authentication.
func NewGoogle(ctx context.Context, apiKey string, opts ...GoogleOption) (*Google, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}

	g := &Google{
		model:   GoogleGemini2Flash,
		backend: genai.BackendGeminiAPI,
	}

	for _, opt := range opts {
		opt(g)
	}

	switch g.model {
	case GoogleGemini2Flash, GoogleGemini2Pro:
	default:
		return nil, fmt.Errorf("%w: %s", ErrModelNotSupported, g.model)
	}

	config := &genai.ClientConfig{
		APIKey:   apiKey,
		Backend:  g.backend,
		Project:  g.project,
		Location: g.location,
	}

	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClientCreationFailed, err)
	}
	g.client = client

	return g, nil
}

// Generate returns the completion text for the request.
func (g *Google) Generate(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", ErrEmptyPrompt
	}

	config := &genai.GenerateContentConfig{}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(req.System)},
		}
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.Temperature != nil {
		temp := float32(*req.Temperature)
		config.Temperature = &temp
	}
	if g.grounding {
		config.Tools = []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), config)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrNoCompletionReturned
	}
	return text, nil
}

// Model returns the configured model identifier.
func (g *Google) Model() string {
	return g.model
}
