package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/apexhub/pkg/ratelimiter"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool
	// Limiter is the rate limiting implementation to use (required)
	Limiter ratelimiter.RateLimiter
	// KeyExtractor defines how to extract the rate limiting key (default: client IP)
	KeyExtractor func(r *http.Request) string
	// SetHeaders determines whether to include rate limit information in response headers
	SetHeaders bool
}

// RateLimit creates a rate limiting middleware with the provided
// configuration. Requests over the limit get 429 with a Retry-After header.
// Panics if no limiter is provided.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.Limiter == nil {
		panic("ratelimit middleware: limiter is required")
	}

	if cfg.KeyExtractor == nil {
		cfg.KeyExtractor = func(r *http.Request) string {
			if ip, ok := GetClientIP(r.Context()); ok {
				return ip
			}
			return r.RemoteAddr
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			result, err := cfg.Limiter.Allow(r.Context(), cfg.KeyExtractor(r))
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}

			if cfg.SetHeaders {
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
				remaining := result.Remaining
				if remaining < 0 {
					remaining = 0
				}
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
			}

			if !result.Allowed() {
				retryAfter := int(result.RetryAfter().Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error":       "rate limit exceeded",
					"retry_after": retryAfter,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
