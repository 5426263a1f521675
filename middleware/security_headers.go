package middleware

import "net/http"

// SecurityHeadersConfig configures the security headers middleware.
// Empty fields fall back to safe defaults; set a field to "-" to suppress
// that header entirely.
type SecurityHeadersConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool
	// ContentTypeOptions controls X-Content-Type-Options header
	ContentTypeOptions string
	// FrameOptions controls X-Frame-Options header
	FrameOptions string
	// StrictTransportSecurity controls Strict-Transport-Security header
	StrictTransportSecurity string
	// ContentSecurityPolicy controls Content-Security-Policy header
	ContentSecurityPolicy string
	// ReferrerPolicy controls Referrer-Policy header
	ReferrerPolicy string
}

// SecurityHeaders creates a security headers middleware with defaults
// suitable for a JSON API embedded in the Telegram client.
func SecurityHeaders() func(http.Handler) http.Handler {
	return SecurityHeadersWithConfig(SecurityHeadersConfig{})
}

// SecurityHeadersWithConfig creates a security headers middleware with
// custom configuration.
func SecurityHeadersWithConfig(cfg SecurityHeadersConfig) func(http.Handler) http.Handler {
	if cfg.ContentTypeOptions == "" {
		cfg.ContentTypeOptions = "nosniff"
	}
	if cfg.FrameOptions == "" {
		// Telegram renders Mini Apps in a webview, not an iframe on our
		// origin, so denying framing is safe for the API.
		cfg.FrameOptions = "DENY"
	}
	if cfg.StrictTransportSecurity == "" {
		cfg.StrictTransportSecurity = "max-age=31536000; includeSubDomains"
	}
	if cfg.ReferrerPolicy == "" {
		cfg.ReferrerPolicy = "no-referrer"
	}

	headers := map[string]string{
		"X-Content-Type-Options":    cfg.ContentTypeOptions,
		"X-Frame-Options":           cfg.FrameOptions,
		"Strict-Transport-Security": cfg.StrictTransportSecurity,
		"Content-Security-Policy":   cfg.ContentSecurityPolicy,
		"Referrer-Policy":           cfg.ReferrerPolicy,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			for name, value := range headers {
				if value == "" || value == "-" {
					continue
				}
				w.Header().Set(name, value)
			}

			next.ServeHTTP(w, r)
		})
	}
}
