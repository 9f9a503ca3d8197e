// Package plog provides the process-wide structured logger for rexsync.
// It wraps log/slog so the rest of the codebase never touches handler setup.
package plog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Level aliases keep call sites free of a direct slog import.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// levelDispatchHandler is a slog.Handler that routes records by severity:
// INFO and below go to one handler (stdout), WARN and above to another
// (stderr). This keeps progress output separable from diagnostics.
type levelDispatchHandler struct {
	outHandler slog.Handler
	errHandler slog.Handler
}

func (h *levelDispatchHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.outHandler.Enabled(ctx, level) || h.errHandler.Enabled(ctx, level)
}

func (h *levelDispatchHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn {
		return h.errHandler.Handle(ctx, r)
	}
	return h.outHandler.Handle(ctx, r)
}

func (h *levelDispatchHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelDispatchHandler{
		outHandler: h.outHandler.WithAttrs(attrs),
		errHandler: h.errHandler.WithAttrs(attrs),
	}
}

func (h *levelDispatchHandler) WithGroup(name string) slog.Handler {
	return &levelDispatchHandler{
		outHandler: h.outHandler.WithGroup(name),
		errHandler: h.errHandler.WithGroup(name),
	}
}

var (
	defaultLogger *slog.Logger
	levelVar      slog.LevelVar
	quietMode     atomic.Bool
)

func init() {
	levelVar.Set(slog.LevelInfo)

	outHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: &levelVar})
	errHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})

	defaultLogger = slog.New(&levelDispatchHandler{
		outHandler: outHandler,
		errHandler: errHandler,
	})
}

// SetOutput redirects all log output to the given writer, primarily for tests.
// Quiet mode is cleared so every enabled level reaches the writer.
func SetOutput(w io.Writer) {
	quietMode.Store(false)
	defaultLogger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: &levelVar}))
}

// SetLevel adjusts the minimum level written to stdout. Warnings and errors
// always pass through on stderr regardless of the configured level.
func SetLevel(level slog.Level) {
	levelVar.Set(level)
}

// SetQuiet enables or disables quiet mode. In quiet mode, DEBUG and INFO
// logs are suppressed; warnings and errors are not.
func SetQuiet(quiet bool) {
	quietMode.Store(quiet)
}

// IsQuiet reports whether quiet mode is active.
func IsQuiet() bool {
	return quietMode.Load()
}

// ParseLevel converts a level name ("debug", "info", "warn", "error") into
// a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %q. Must be 'debug', 'info', 'warn', or 'error'", s)
	}
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	if quietMode.Load() {
		return
	}
	defaultLogger.Debug(msg, args...)
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	if quietMode.Load() {
		return
	}
	defaultLogger.Info(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}
