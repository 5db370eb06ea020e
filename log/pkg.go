package log

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

// DefaultContextProvider supplies the [context.Context] used by the logging
// methods that don't accept one.
//
// It defaults to [context.TODO]. Programs that thread request metadata or
// cancellation through their handlers can replace it at startup.
var DefaultContextProvider = context.TODO

var (
	defaultMutex sync.RWMutex
	defaultLog   = Make(os.Stderr)
)

// Config applies the given options to the package-level default logger.
// The existing configuration is used as the base, so repeated calls
// accumulate.
func Config(opts ...Option) {
	defaultMutex.Lock()
	defer defaultMutex.Unlock()

	defaultLog = defaultLog.Wrap(opts...)
}

// Default returns the package-level default logger.
func Default() Logger {
	defaultMutex.RLock()
	defer defaultMutex.RUnlock()

	return defaultLog
}

// Trace logs a message at Trace level using the default logger.
func Trace(msg string, attrs ...slog.Attr) {
	Default().TraceContext(DefaultContextProvider(), msg, attrs...)
}

// TraceContext logs a message at Trace level with the provided context using
// the default logger.
func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().TraceContext(ctx, msg, attrs...)
}

// Debug logs a message at Debug level using the default logger.
func Debug(msg string, attrs ...slog.Attr) {
	Default().DebugContext(DefaultContextProvider(), msg, attrs...)
}

// DebugContext logs a message at Debug level with the provided context using
// the default logger.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().DebugContext(ctx, msg, attrs...)
}

// Info logs a message at Info level using the default logger.
func Info(msg string, attrs ...slog.Attr) {
	Default().InfoContext(DefaultContextProvider(), msg, attrs...)
}

// InfoContext logs a message at Info level with the provided context using
// the default logger.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().InfoContext(ctx, msg, attrs...)
}

// Warn logs a message at Warn level using the default logger.
func Warn(msg string, attrs ...slog.Attr) {
	Default().WarnContext(DefaultContextProvider(), msg, attrs...)
}

// WarnContext logs a message at Warn level with the provided context using
// the default logger.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().WarnContext(ctx, msg, attrs...)
}

// Error logs a message at Error level using the default logger.
func Error(msg string, attrs ...slog.Attr) {
	Default().ErrorContext(DefaultContextProvider(), msg, attrs...)
}

// ErrorContext logs a message at Error level with the provided context using
// the default logger.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().ErrorContext(ctx, msg, attrs...)
}
