package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/apexhub/core/email"
)

// Supported values for Config.TLSMode.
const (
	ModeSTARTTLS = "starttls"
	ModeTLS      = "tls"
	ModePlain    = "plain"
)

// Client delivers report emails over plain SMTP. It satisfies
// email.EmailSender and is safe for concurrent use: every send opens
// its own connection.
type Client struct {
	cfg  Config
	auth smtp.Auth
}

// New validates cfg and returns a ready sender. Every field must be
// set; a half-configured SMTP sender fails at delivery time, long
// after startup, so construction refuses to let that happen.
func New(cfg Config) (email.EmailSender, error) {
	switch {
	case cfg.Host == "":
		return nil, fmt.Errorf("%w: SMTP host is empty", email.ErrInvalidConfig)
	case cfg.Port <= 0 || cfg.Port > 65535:
		return nil, fmt.Errorf("%w: SMTP port %d out of range", email.ErrInvalidConfig, cfg.Port)
	case cfg.Username == "" || cfg.Password == "":
		return nil, fmt.Errorf("%w: SMTP credentials are incomplete", email.ErrInvalidConfig)
	}
	switch cfg.TLSMode {
	case ModeSTARTTLS, ModeTLS, ModePlain:
	default:
		return nil, fmt.Errorf("%w: unknown TLS mode %q", email.ErrInvalidConfig, cfg.TLSMode)
	}
	for _, addr := range []string{cfg.SenderEmail, cfg.SupportEmail} {
		if _, err := mail.ParseAddress(addr); err != nil {
			return nil, fmt.Errorf("%w: bad address %q", email.ErrInvalidConfig, addr)
		}
	}

	return &Client{
		cfg:  cfg,
		auth: smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host),
	}, nil
}

// SendEmail delivers one HTML message. The SMTP transaction itself is
// not cancelable mid-flight; the context is only consulted up front.
func (c *Client) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	if err := ctx.Err(); err != nil {
		return errors.Join(email.ErrFailedToSendEmail, err)
	}
	if err := params.Validate(); err != nil {
		return err
	}

	msg := c.compose(params)
	addr := net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port))

	var err error
	switch c.cfg.TLSMode {
	case ModeTLS:
		err = c.deliverTLS(addr, params.SendTo, msg)
	default:
		err = c.deliver(addr, params.SendTo, msg)
	}
	if err != nil {
		return errors.Join(email.ErrFailedToSendEmail, err)
	}
	return nil
}

// compose renders the MIME message. Header order is fixed so that two
// sends of the same report differ only in Date and Message-ID.
func (c *Client) compose(params email.SendEmailParams) []byte {
	var b strings.Builder
	write := func(k, v string) {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\r\n")
	}
	write("From", c.cfg.SenderEmail)
	write("To", params.SendTo)
	write("Reply-To", c.cfg.SupportEmail)
	write("Subject", params.Subject)
	write("Date", time.Now().Format(time.RFC1123Z))
	write("Message-ID", fmt.Sprintf("<%d.%s@%s>",
		time.Now().UnixNano(),
		strings.ReplaceAll(params.Tag, " ", "_"),
		c.cfg.Host,
	))
	write("MIME-Version", "1.0")
	write("Content-Type", `text/html; charset="UTF-8"`)
	b.WriteString("\r\n")
	b.WriteString(params.BodyHTML)
	return []byte(b.String())
}

// deliverTLS dials an implicit-TLS port (usually 465).
func (c *Client) deliverTLS(addr, rcpt string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: c.cfg.Host})
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer func() { _ = conn.Close() }()

	cl, err := smtp.NewClient(conn, c.cfg.Host)
	if err != nil {
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer func() { _ = cl.Close() }()

	return c.transact(cl, rcpt, msg)
}

// deliver dials in the clear and, in starttls mode, upgrades before
// authenticating.
func (c *Client) deliver(addr, rcpt string, msg []byte) error {
	cl, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer func() { _ = cl.Close() }()

	if c.cfg.TLSMode == ModeSTARTTLS {
		if err := cl.StartTLS(&tls.Config{ServerName: c.cfg.Host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	return c.transact(cl, rcpt, msg)
}

func (c *Client) transact(cl *smtp.Client, rcpt string, msg []byte) error {
	if err := cl.Auth(c.auth); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := cl.Mail(c.cfg.SenderEmail); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := cl.Rcpt(rcpt); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}

	w, err := cl.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close body: %w", err)
	}

	// Some servers drop the connection right after DATA is accepted;
	// the message is already queued at that point.
	_ = cl.Quit()
	return nil
}
