package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const service = "onboarding"

// Formats accepted by New. Anything else means JSON.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// New creates the service logger on stdout. An invalid level means info.
func New(level, format string) *slog.Logger {
	return NewWithWriter(os.Stdout, level, format)
}

// NewWithWriter is New writing to w. Every record carries the service name.
func NewWithWriter(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, FormatText) {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler).With(slog.String("service", service))
}

// ParseLevel maps LOG_LEVEL to a slog level, falling back to info.
func ParseLevel(level string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Discard returns a logger that drops all output.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
