package aigen

import "errors"

var (
	// ErrInvalidAPIKey indicates an invalid or missing API key.
	ErrInvalidAPIKey = errors.New("invalid or missing API key")

	// ErrModelNotSupported indicates the model is not supported.
	ErrModelNotSupported = errors.New("model not supported")

	// ErrEmptyPrompt indicates the request carried no prompt text.
	ErrEmptyPrompt = errors.New("empty prompt")

	// ErrGenerationFailed indicates a failure in the completion call.
	ErrGenerationFailed = errors.New("failed to generate completion")

	// ErrNoCompletionReturned indicates the API returned no candidates.
	ErrNoCompletionReturned = errors.New("no completion returned")

	// ErrClientCreationFailed indicates a failure in creating the API client.
	ErrClientCreationFailed = errors.New("failed to create API client")
)
