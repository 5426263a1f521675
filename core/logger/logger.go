package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Config selects the handler level and output format, normally loaded from
// the environment via core/config.
type Config struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`   // debug | info | warn | error
	Format string `env:"LOG_FORMAT" envDefault:"text"`  // text | json
	Source bool   `env:"LOG_SOURCE" envDefault:"false"` // include source positions
}

// New creates a slog.Logger writing to stderr. The app name is attached to
// every record so aggregated logs from several services stay attributable.
func New(cfg Config, app string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.Source,
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	log := slog.New(handler)
	if app != "" {
		log = log.With(slog.String("app", app))
	}
	return log
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
