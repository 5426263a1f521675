package email

import "errors"

// Sentinel errors shared by every sender implementation; providers
// wrap them with delivery detail so callers match on errors.Is.
var (
	ErrFailedToSendEmail = errors.New("failed to send email")
	ErrInvalidConfig     = errors.New("invalid email configuration")
	ErrInvalidParams     = errors.New("invalid email parameters")
)
