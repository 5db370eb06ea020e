// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The package offers configurable time formatting, caller information,
// and output formats that are applied at logger creation time using
// functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("model loaded", slog.String("path", path))
//	logger.Error("load failed", slog.Any("error", err))
//
// # Configuration
//
// Configure a logger using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// The package also maintains a default logger used by the package-level
// functions. It is reconfigured with [Config]:
//
//	log.Config(log.WithLevel(log.LevelDebug), log.WithFormat(log.FormatText))
//	log.Debug("cache reset")
//
// # Context-Aware Logging
//
// Each logging level has both a context-aware and context-unaware variant:
//
//	logger.InfoContext(ctx, "resolving expression")
//	logger.Info("message without context") // uses DefaultContextProvider
//
// Context-unaware functions internally call their context-aware counterparts
// using [DefaultContextProvider], which returns [context.TODO] by default.
//
// # Supported Levels
//
// The package supports five log levels: [LevelTrace], [LevelDebug],
// [LevelInfo], [LevelWarn], and [LevelError]. Messages below the configured
// level are discarded. Trace sits below Debug and carries the token-by-token
// diagnostics emitted by the expression engine.
//
// # Output Formats
//
// Two output formats are supported: [FormatJSON] (default) and [FormatText].
// With [WithPretty] enabled, text output is colorized using lipgloss styles.
package log
