package aigen

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI model constants.
const (
	OpenAIGPT4oMini = "gpt-4o-mini"
	OpenAIGPT4o     = "gpt-4o"
)

// OpenAI implements the Generator interface using OpenAI's chat completions API.
type OpenAI struct {
	client openai.Client
	model  string
}

// OpenAIOption is a functional option for configuring OpenAI.
type OpenAIOption func(*OpenAI)

// WithOpenAIModel sets the model to use.
func WithOpenAIModel(model string) OpenAIOption {
	return func(o *OpenAI) {
		o.model = model
	}
}

// WithOpenAIHTTPClient sets a custom HTTP client.
func WithOpenAIHTTPClient(client *http.Client) OpenAIOption {
	return func(o *OpenAI) {
		if client != nil {
			o.client = openai.NewClient(
				option.WithHTTPClient(client),
			)
		}
	}
}

// NewOpenAI creates a new OpenAI generator.
func NewOpenAI(apiKey string, opts ...OpenAIOption) (*OpenAI, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}

	o := &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  OpenAIGPT4oMini, // Cheapest model that handles narrative summaries well
	}

	for _, opt := range opts {
		opt(o)
	}

	switch o.model {
	case OpenAIGPT4oMini, OpenAIGPT4o:
	default:
		return nil, fmt.Errorf("%w: %s", ErrModelNotSupported, o.model)
	}

	return o, nil
}

// Generate returns the completion text for the request.
func (o *OpenAI) Generate(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", ErrEmptyPrompt
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.model),
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoCompletionReturned
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrNoCompletionReturned
	}
	return text, nil
}

// Model returns the configured model identifier.
func (o *OpenAI) Model() string {
	return o.model
}
