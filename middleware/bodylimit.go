package middleware

import (
	"net/http"
)

// defaultMaxBodySize caps request bodies at 4MB.
const defaultMaxBodySize int64 = 4 << 20

// BodyLimitConfig configures the request body limit middleware.
type BodyLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool
	// MaxSize is the maximum allowed size in bytes (default: 4MB)
	MaxSize int64
}

// BodyLimit creates a body limit middleware with the default 4MB cap.
func BodyLimit() func(http.Handler) http.Handler {
	return BodyLimitWithConfig(BodyLimitConfig{})
}

// BodyLimitWithConfig creates a body limit middleware with custom
// configuration. Requests whose declared Content-Length exceeds the cap get
// 413 immediately; bodies without a declared length are wrapped with
// http.MaxBytesReader so oversized streams fail on read.
func BodyLimitWithConfig(cfg BodyLimitConfig) func(http.Handler) http.Handler {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = defaultMaxBodySize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength > cfg.MaxSize {
				http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxSize)
			next.ServeHTTP(w, r)
		})
	}
}
