package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates a configured application logger.
// It writes to Stderr (to separate from Stdout command output).
// It standardizes common keys (e.g., "error" -> "err").
func New(level slog.Level) *slog.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter is New with a custom destination.
func NewWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Standardize 'error' key to 'err'
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a level name ("debug", "info", "warn", "error") to a slog.Level.
// Unknown names fall back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// ModuleLogger adapts a slog.Logger to the status/warning/error channel
// handed to modules. Every record carries the module id.
type ModuleLogger struct {
	logger *slog.Logger
}

// NewModuleLogger returns a ModuleLogger tagged with moduleID.
func NewModuleLogger(base *slog.Logger, moduleID string) *ModuleLogger {
	if base == nil {
		base = NewNop()
	}
	return &ModuleLogger{logger: base.With("module", moduleID)}
}

func (l *ModuleLogger) Status(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *ModuleLogger) Warning(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *ModuleLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}
