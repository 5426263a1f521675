package email

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DevSender writes outgoing mail to a local directory instead of a
// provider, so report rendering can be inspected in a browser during
// development. Each message becomes an .html file with a .json sidecar
// holding the envelope.
type DevSender struct {
	dir string
}

// NewDevSender returns a sender dropping messages into dir. The
// directory is created lazily on the first send.
func NewDevSender(dir string) EmailSender {
	return &DevSender{dir: dir}
}

type envelope struct {
	SentAt  string `json:"sent_at"`
	SendTo  string `json:"send_to"`
	Subject string `json:"subject"`
	Tag     string `json:"tag,omitempty"`
}

func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create outbox dir: %v", ErrFailedToSendEmail, err)
	}

	// Timestamp prefix keeps the directory listing chronological; the
	// tag (or subject) makes individual messages findable.
	now := time.Now()
	label := params.Tag
	if label == "" {
		label = params.Subject
	}
	base := now.Format("2006_01_02_150405") + "_" + filenameSafe(label)

	htmlPath := filepath.Join(d.dir, base+".html")
	if err := os.WriteFile(htmlPath, []byte(params.BodyHTML), 0o644); err != nil {
		return fmt.Errorf("%w: write html: %v", ErrFailedToSendEmail, err)
	}

	meta, err := json.MarshalIndent(envelope{
		SentAt:  now.Format(time.RFC3339),
		SendTo:  params.SendTo,
		Subject: params.Subject,
		Tag:     params.Tag,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode envelope: %v", ErrFailedToSendEmail, err)
	}
	if err := os.WriteFile(filepath.Join(d.dir, base+".json"), meta, 0o644); err != nil {
		return fmt.Errorf("%w: write envelope: %v", ErrFailedToSendEmail, err)
	}
	return nil
}

// filenameSafe lowercases s and strips anything a filesystem might
// object to, capping the result at 100 bytes.
func filenameSafe(s string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, s)
	if len(mapped) > 100 {
		mapped = mapped[:100]
	}
	if mapped == "" {
		return "message"
	}
	return mapped
}
