// Package middleware provides net/http middleware for the platform API:
// Telegram Mini App authentication, request IDs, client IP resolution,
// structured request logging, rate limiting, CORS, security headers, and
// request body limits.
//
// Every middleware follows the same shape: a Config struct with optional
// fields, a constructor returning func(http.Handler) http.Handler, and a
// Skip hook for exempting specific requests. Values extracted by a
// middleware are stored in the request context under unexported key types
// and read back with the package's Get helpers.
//
// # Composition
//
//	handler = middleware.RequestID()(
//		middleware.Logging(logger)(
//			middleware.TelegramAuth(authCfg)(mux)))
//
// Order matters: RequestID and ClientIP should run before Logging so log
// lines carry both, and rate limiting should run before authentication so
// unauthenticated floods never reach signature verification.
package middleware
