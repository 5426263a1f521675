package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/apexhub/core/tma"
)

// claimsContextKey is used as a key for storing verified claims in request context.
type claimsContextKey struct{}

// authScheme is the Authorization scheme carrying raw Mini App init data.
const authScheme = "tma"

// TelegramAuthConfig configures the Mini App authentication middleware.
type TelegramAuthConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool
	// BotToken is the bot token init data signatures are verified against (required)
	BotToken string
	// MaxAge rejects init data older than this (default: 1h, 0 disables the check)
	MaxAge time.Duration
}

// TelegramAuth creates middleware that authenticates requests carrying
// Telegram Mini App init data in the Authorization header:
//
//	Authorization: tma <raw init data>
//
// Verified claims are stored in the request context; requests with a
// missing, malformed, expired, or forged token get 401.
// Panics if no bot token is provided.
func TelegramAuth(cfg TelegramAuthConfig) func(http.Handler) http.Handler {
	if cfg.BotToken == "" {
		panic("telegram auth middleware: bot token is required")
	}

	verifyOpts := []tma.Option{}
	if cfg.MaxAge != 0 {
		verifyOpts = append(verifyOpts, tma.WithMaxAge(cfg.MaxAge))
	} else {
		verifyOpts = append(verifyOpts, tma.WithMaxAge(time.Hour))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			raw, ok := initDataFromHeader(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w, "missing credentials")
				return
			}

			claims, err := tma.Verify(raw, cfg.BotToken, verifyOpts...)
			if err != nil {
				unauthorized(w, "invalid credentials")
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims retrieves verified Mini App claims from the request context.
func GetClaims(ctx context.Context) (tma.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(tma.Claims)
	return claims, ok
}

func initDataFromHeader(header string) (string, bool) {
	scheme, raw, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, authScheme) || raw == "" {
		return "", false
	}
	return raw, true
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
