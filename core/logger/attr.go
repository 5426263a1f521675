package logger

import (
	"log/slog"
	"time"
)

// Attribute helpers keep log keys consistent across the codebase so
// dashboards can rely on "error", "request_id", and friends always
// meaning the same thing.

// Error logs err under the "error" key. A nil err yields an empty
// attribute that slog drops, so call sites skip the nil check.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RequestID tags a log line with the HTTP request ID; empty IDs are
// dropped.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Method tags a line with the HTTP method.
func Method(method string) slog.Attr {
	return slog.String("method", method)
}

// Path tags a line with the request path.
func Path(path string) slog.Attr {
	return slog.String("path", path)
}

// StatusCode tags a line with the response status.
func StatusCode(code int) slog.Attr {
	return slog.Int("status_code", code)
}

// Duration tags a line with how long an operation took.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
