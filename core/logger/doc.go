// Package logger provides structured logging built on Go's standard slog
// package: an environment-driven constructor plus attribute helpers for the
// platform's common logging patterns.
//
// # Usage
//
//	log := logger.New(logger.Config{Level: "info", Format: "json"}, "apexhub")
//
//	log.LogAttrs(ctx, slog.LevelInfo, "request completed",
//		logger.Method(r.Method),
//		logger.Path(r.URL.Path),
//		logger.StatusCode(status),
//		logger.Error(err),
//	)
//
// Attribute helpers use the empty Attr pattern for nil safety: logger.Error(nil)
// produces an empty attribute that slog drops, so call sites never need
// explicit nil checks.
package logger
