package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrInvalidConfig indicates missing or malformed client configuration.
	ErrInvalidConfig = errors.New("invalid telegram configuration")

	// ErrSendFailed indicates the message could not be delivered.
	ErrSendFailed = errors.New("failed to send telegram message")
)

const defaultBaseURL = "https://api.telegram.org"

// Config holds Telegram Bot API credentials.
type Config struct {
	BotToken string `env:"TELEGRAM_BOT_TOKEN,required"`
}

// Client sends messages through the Telegram Bot API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithBaseURL overrides the Bot API base URL. Used in tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// New creates a Telegram Bot API client.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("%w: BotToken is required", ErrInvalidConfig)
	}

	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		token:      cfg.BotToken,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// sendMessageRequest is the Bot API sendMessage payload.
type sendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// apiResponse is the Bot API envelope.
type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// SendMessage delivers a text message to the given chat. The text may carry
// Telegram-flavored HTML markup.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if text == "" {
		return fmt.Errorf("%w: empty message text", ErrSendFailed)
	}

	body, err := json.Marshal(sendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	if !apiResp.OK {
		return errors.Join(
			ErrSendFailed,
			fmt.Errorf("telegram api error: %d - %s", apiResp.ErrorCode, apiResp.Description),
		)
	}

	return nil
}
