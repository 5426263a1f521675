// Package postmark sends weekly report emails through Postmark,
// selected by EMAIL_PROVIDER=postmark in production.
//
// New validates tokens and sender addresses up front and returns an
// email.EmailSender; delivery failures come back wrapped in
// email.ErrFailedToSendEmail, including API responses with a non-zero
// Postmark error code. Opens and HTML link clicks are tracked, and
// replies go to the configured support address.
package postmark
