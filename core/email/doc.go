// Package email defines the outbound mail contract used by the report
// agent. The interface is one method so feature code never knows which
// provider is behind it:
//
//	type EmailSender interface {
//		SendEmail(ctx context.Context, params SendEmailParams) error
//	}
//
// Three implementations exist: integration/email/postmark for
// production, integration/email/smtp for self-hosted relays, and the
// in-package DevSender, which writes messages to a local directory for
// inspection. The provider is chosen at startup from EMAIL_PROVIDER.
//
// SendEmailParams carries recipient, subject, HTML body, and an
// optional Tag that providers use for grouping (and DevSender for
// filenames). Validate rejects incomplete params before any provider
// is contacted, and delivery failures wrap ErrFailedToSendEmail so
// callers can detect them with errors.Is regardless of provider.
package email
