package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apexhub/core/tma"
	"github.com/dmitrymomot/apexhub/middleware"
)

const testBotToken = "12345:test-bot-token"

// signedInitData builds valid raw init data for the given user.
func signedInitData(t *testing.T, telegramID int64, firstName string, authDate time.Time) string {
	t.Helper()

	fields := url.Values{}
	fields.Set("auth_date", strconv.FormatInt(authDate.Unix(), 10))
	fields.Set("query_id", "AAE1")
	fields.Set("user", `{"id":`+strconv.FormatInt(telegramID, 10)+`,"first_name":"`+firstName+`"}`)
	return tma.Sign(fields, testBotToken)
}

func TestTelegramAuth(t *testing.T) {
	t.Parallel()

	var gotClaims tma.Claims
	var hadClaims bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, hadClaims = middleware.GetClaims(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.TelegramAuth(middleware.TelegramAuthConfig{
		BotToken: testBotToken,
	})(inner)

	t.Run("valid token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/orgs", nil)
		r.Header.Set("Authorization", "tma "+signedInitData(t, 42, "Alice", time.Now()))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.True(t, hadClaims)
		assert.Equal(t, int64(42), gotClaims.TelegramID)
		assert.Equal(t, "Alice", gotClaims.FirstName)
	})

	t.Run("missing header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/orgs", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/orgs", nil)
		r.Header.Set("Authorization", "Bearer "+signedInitData(t, 42, "Alice", time.Now()))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("forged token", func(t *testing.T) {
		raw := signedInitData(t, 42, "Alice", time.Now())
		fields, err := url.ParseQuery(raw)
		require.NoError(t, err)
		fields.Set("user", `{"id":43,"first_name":"Mallory"}`)

		r := httptest.NewRequest(http.MethodGet, "/orgs", nil)
		r.Header.Set("Authorization", "tma "+fields.Encode())
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/orgs", nil)
		r.Header.Set("Authorization", "tma "+signedInitData(t, 42, "Alice", time.Now().Add(-2*time.Hour)))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("skip bypasses verification", func(t *testing.T) {
		skipping := middleware.TelegramAuth(middleware.TelegramAuthConfig{
			BotToken: testBotToken,
			Skip:     func(r *http.Request) bool { return r.URL.Path == "/healthz" },
		})(inner)

		r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		w := httptest.NewRecorder()

		skipping.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestTelegramAuth_PanicsWithoutToken(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		middleware.TelegramAuth(middleware.TelegramAuthConfig{})
	})
}
