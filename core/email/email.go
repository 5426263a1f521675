package email

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// SendEmailParams defines the content and metadata of an outgoing email.
type SendEmailParams struct {
	SendTo   string // Recipient email address (required)
	Subject  string // Email subject line (required)
	BodyHTML string // HTML email body (required)
	Tag      string // Optional tag for analytics and tracking
}

// recipientRegex is a simple regex for validating recipient addresses.
var recipientRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validate checks that all required fields are present and well-formed.
func (p SendEmailParams) Validate() error {
	if strings.TrimSpace(p.SendTo) == "" {
		return fmt.Errorf("%w: SendTo is required", ErrInvalidParams)
	}
	if !recipientRegex.MatchString(p.SendTo) {
		return fmt.Errorf("%w: SendTo must be a valid email address", ErrInvalidParams)
	}
	if strings.TrimSpace(p.Subject) == "" {
		return fmt.Errorf("%w: Subject is required", ErrInvalidParams)
	}
	if strings.TrimSpace(p.BodyHTML) == "" {
		return fmt.Errorf("%w: BodyHTML is required", ErrInvalidParams)
	}
	return nil
}

// EmailSender abstracts the delivery provider so application code can swap
// production and development implementations.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}
