package handlestore

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with store-specific context.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithStore tags the logger with a store name.
func (l *Logger) WithStore(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("store", name),
	}
}

// WithFields adds the per-row field count.
func (l *Logger) WithFields(fields int) *Logger {
	return &Logger{
		Logger: l.Logger.With("fields", fields),
	}
}

// LogEmplace logs an insert.
func (l *Logger) LogEmplace(h Handle, err error) {
	if err != nil {
		l.Error("emplace failed",
			"error", err,
		)
		return
	}
	l.Debug("emplace completed",
		"handle", h.String(),
	)
}

// LogErase logs a removal. Stale handles are logged at Debug; they are an
// expected condition.
func (l *Logger) LogErase(h Handle, found bool) {
	if !found {
		l.Debug("erase ignored stale handle",
			"handle", h.String(),
		)
		return
	}
	l.Debug("erase completed",
		"handle", h.String(),
	)
}

// LogResize logs a capacity or size change requested by the caller.
func (l *Logger) LogResize(op string, n int, err error) {
	if err != nil {
		l.Warn(op+" failed",
			"n", n,
			"error", err,
		)
		return
	}
	l.Debug(op+" completed",
		"n", n,
	)
}
