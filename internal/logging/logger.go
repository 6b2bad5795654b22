// Package logging defines the structured logger used across the console.
// Backends: log/slog (text or JSON) and zerolog.
package logging

import (
	"context"
	"io"
	"log/slog"

	"github.com/rs/zerolog"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are key–value pairs:
//
//	log.Info(ctx, "token refreshed", "request_id", id)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Supported values for the log format setting.
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatZerolog = "zerolog"
)

// New builds a Logger for the given format writing to w. Unknown formats
// fall back to slog text.
func New(format string, w io.Writer, debug bool) Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	switch format {
	case FormatZerolog:
		zl := zerolog.New(w).With().Timestamp().Logger()
		if debug {
			zl = zl.Level(zerolog.DebugLevel)
		} else {
			zl = zl.Level(zerolog.InfoLevel)
		}
		return NewZerologLogger(zl)
	case FormatJSON:
		return NewSlogLogger(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})))
	default:
		return NewSlogLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	}
}

// Nop discards everything.
func Nop() Logger {
	return NewZerologLogger(zerolog.Nop())
}
