package postmark

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/dmitrymomot/apexhub/core/email"
	"github.com/mrz1836/postmark"
)

// Client sends report emails through Postmark's transactional API.
// It is the production email.EmailSender; the smtp and dev senders
// cover self-hosted and local setups.
type Client struct {
	pm  *postmark.Client
	cfg Config
}

// New validates cfg and returns a ready sender. Both tokens and both
// addresses must be present so misconfiguration surfaces at startup
// rather than on the first weekly report.
func New(cfg Config) (email.EmailSender, error) {
	if cfg.PostmarkServerToken == "" || cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: postmark tokens are incomplete", email.ErrInvalidConfig)
	}
	for _, addr := range []string{cfg.SenderEmail, cfg.SupportEmail} {
		if _, err := mail.ParseAddress(addr); err != nil {
			return nil, fmt.Errorf("%w: bad address %q", email.ErrInvalidConfig, addr)
		}
	}

	return &Client{
		pm:  postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		cfg: cfg,
	}, nil
}

// SendEmail delivers one HTML message. Opens and HTML link clicks are
// tracked; replies are routed to the support address.
func (c *Client) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	resp, err := c.pm.SendEmail(ctx, postmark.Email{
		From:       c.cfg.SenderEmail,
		ReplyTo:    c.cfg.SupportEmail,
		To:         params.SendTo,
		Subject:    params.Subject,
		Tag:        params.Tag,
		HTMLBody:   params.BodyHTML,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	})
	if err != nil {
		return errors.Join(email.ErrFailedToSendEmail, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(
			email.ErrFailedToSendEmail,
			fmt.Errorf("postmark rejected the message: %d %s", resp.ErrorCode, resp.Message),
		)
	}
	return nil
}
