// Package logging builds the zerolog logger shared by the server, the CLI and the services.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/config"
)

// New returns a logger writing to stderr. Pretty selects the human readable console writer.
// Unknown levels fall back to info.
func New(cfg config.LogConfig) zerolog.Logger {
	var out io.Writer = os.Stderr
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Nop returns a disabled logger for tests and library callers that don't care.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// Printf adapts a zerolog.Logger to the Printf/Fatalf style loggers expected by goose and cron.
type Printf struct {
	Logger zerolog.Logger
}

// Printf logs at info level.
func (p Printf) Printf(format string, v ...any) {
	p.Logger.Info().Msgf(format, v...)
}

// Fatalf logs at fatal level and exits.
func (p Printf) Fatalf(format string, v ...any) {
	p.Logger.Fatal().Msgf(format, v...)
}
