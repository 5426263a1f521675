package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/apexhub/core/logger"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool
	// Logger is the structured logger to write to (default: no-op logger)
	Logger *slog.Logger
	// SlowThreshold marks requests slower than this as warnings (default: 1s)
	SlowThreshold time.Duration
}

// statusRecorder captures the response status code for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Logging creates a request logging middleware with the given logger.
func Logging(log *slog.Logger) func(http.Handler) http.Handler {
	return LoggingWithConfig(LoggingConfig{Logger: log})
}

// LoggingWithConfig creates a request logging middleware with custom
// configuration. Each completed request is logged with method, path, status,
// duration, and the request ID and client IP when earlier middleware
// resolved them.
func LoggingWithConfig(cfg LoggingConfig) func(http.Handler) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.SlowThreshold <= 0 {
		cfg.SlowThreshold = time.Second
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			attrs := []any{
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.StatusCode(rec.status),
				logger.Duration(elapsed),
			}
			if id, ok := GetRequestID(r.Context()); ok {
				attrs = append(attrs, logger.RequestID(id))
			}
			if ip, ok := GetClientIP(r.Context()); ok {
				attrs = append(attrs, slog.String("client_ip", ip))
			}

			ctx := r.Context()
			switch {
			case rec.status >= http.StatusInternalServerError:
				cfg.Logger.ErrorContext(ctx, "request failed", attrs...)
			case elapsed > cfg.SlowThreshold:
				cfg.Logger.WarnContext(ctx, "slow request", attrs...)
			default:
				cfg.Logger.InfoContext(ctx, "request completed", attrs...)
			}
		})
	}
}
