// Package smtp delivers report emails through a plain SMTP relay, for
// deployments that bring their own mail server instead of Postmark.
//
// The sender is selected by EMAIL_PROVIDER=smtp and configured entirely
// from the environment:
//
//	var cfg smtp.Config
//	config.MustLoad(&cfg)
//	mailer, err := smtp.New(cfg)
//
// TLSMode picks the connection style: "starttls" (default, port 587),
// "tls" for implicit TLS (port 465), or "plain" for test relays.
package smtp
