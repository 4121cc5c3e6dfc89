package config

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns the freshguard logger writing to w. Console output
// uses short local times; json keeps RFC 3339 stamps. The level applies
// to the returned logger only.
func NewLogger(cfg LoggerConfig, w io.Writer) zerolog.Logger {
	out := w
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	return zerolog.New(out).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("app", "freshguard").
		Logger()
}

// parseLevel maps a validated LOG_LEVEL value; anything else means warn,
// the CLI default.
func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}
