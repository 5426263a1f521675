package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apexhub/middleware"
	"github.com/dmitrymomot/apexhub/pkg/ratelimiter"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates and exposes id", func(t *testing.T) {
		t.Parallel()

		var ctxID string
		handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctxID, _ = middleware.GetRequestID(r.Context())
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		headerID := w.Header().Get("X-Request-ID")
		require.NotEmpty(t, headerID)
		assert.Equal(t, headerID, ctxID)
	})

	t.Run("reuses incoming id when configured", func(t *testing.T) {
		t.Parallel()

		handler := middleware.RequestIDWithConfig(middleware.RequestIDConfig{UseExisting: true})(okHandler())

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Request-ID", "upstream-id")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.Equal(t, "upstream-id", w.Header().Get("X-Request-ID"))
	})
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	var ctxIP string
	handler := middleware.ClientIP()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxIP, _ = middleware.GetClientIP(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, "198.51.100.7", ctxIP)
	assert.Equal(t, "198.51.100.7", w.Header().Get("X-Client-IP"))
}

func TestLogging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	handler := middleware.RequestID()(middleware.Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/prospects", nil))

	out := buf.String()
	assert.Contains(t, out, "request completed")
	assert.Contains(t, out, "method=POST")
	assert.Contains(t, out, "path=/prospects")
	assert.Contains(t, out, "status_code=201")
	assert.Contains(t, out, "request_id=")
}

func TestLogging_ServerErrorLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	handler := middleware.Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "request failed")
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	limiter, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
		Capacity:       2,
		RefillRate:     2,
		RefillInterval: time.Hour,
	})
	require.NoError(t, err)

	handler := middleware.RateLimit(middleware.RateLimitConfig{
		Limiter:    limiter,
		SetHeaders: true,
	})(okHandler())

	send := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "203.0.113.5:1000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	first := send()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))

	send()

	third := send()
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.NotEmpty(t, third.Header().Get("Retry-After"))
	assert.Contains(t, third.Body.String(), "rate limit exceeded")
}

func TestCORS(t *testing.T) {
	t.Parallel()

	t.Run("preflight", func(t *testing.T) {
		t.Parallel()

		handler := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     []string{"https://app.example.com"},
			AllowCredentials: true,
			MaxAge:           3600,
		})(okHandler())

		r := httptest.NewRequest(http.MethodOptions, "/orgs", nil)
		r.Header.Set("Origin", "https://app.example.com")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("disallowed origin gets no cors headers", func(t *testing.T) {
		t.Parallel()

		handler := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: []string{"https://app.example.com"},
		})(okHandler())

		r := httptest.NewRequest(http.MethodGet, "/orgs", nil)
		r.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	handler := middleware.SecurityHeaders()(okHandler())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestBodyLimit(t *testing.T) {
	t.Parallel()

	handler := middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{MaxSize: 16})(okHandler())

	t.Run("under limit", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small"))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("declared length over limit", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64)))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}
