package segtab

import (
	"log/slog"
	"os"

	"github.com/fracturedlabs/segtab/segment"
)

// Logger wraps slog.Logger with segtab-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithKind returns a Logger whose records carry the owning segment
// kind. Distribution and mutation notices are scoped through it.
func (l *Logger) WithKind(kind segment.Kind) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("kind", kind.String())),
	}
}

// WithCursor returns a Logger whose records carry the focus cursor
// position.
func (l *Logger) WithCursor(c Cursor) *Logger {
	return &Logger{
		Logger: l.Logger.With(
			slog.String("row", c.Row),
			slog.String("column", c.Column),
		),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}
