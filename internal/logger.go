package internal

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the process logger: human-readable console output in
// dev, JSON elsewhere. An unknown level falls back to info.
func NewLogger(w io.Writer, env string, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if env == "dev" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
