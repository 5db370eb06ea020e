package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	if logger.config.level != LevelInfo {
		t.Errorf("expected default level Info, got %v", logger.config.level)
	}
	if logger.config.caller {
		t.Error("expected caller info disabled by default")
	}
	if logger.config.format != FormatJSON {
		t.Errorf("expected default format JSON, got %v", logger.config.format)
	}
}

func TestLogger_Make_WithLevel_FiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelDebug))

	logger.Debug("debug message")
	if !strings.Contains(buf.String(), "debug message") {
		t.Error("debug message not logged after setting level to Debug")
	}

	buf.Reset()
	logger2 := Make(&buf, WithLevel(LevelError))
	logger2.Info("info message")
	if buf.Len() > 0 {
		t.Error("info message logged when level is Error")
	}

	logger2.Error("error message")
	if !strings.Contains(buf.String(), "error message") {
		t.Error("error message not logged at Error level")
	}
}

func TestLogger_Make_WithTimeLayout_SetsLayout(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		contains string
	}{
		{"rfc3339 named", "RFC3339", "T"},
		{"rfc3339 nano named", "RFC3339Nano", "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Make(&buf, WithTimeLayout(tt.format))
			logger.Info("test")

			output := buf.String()
			if !strings.Contains(output, tt.contains) {
				t.Errorf(
					"expected time format to contain %q, got: %s",
					tt.contains,
					output,
				)
			}
		})
	}
}

func TestLogger_Make_WithCaller_IncludesCallerInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithCaller(true))
	logger.Info("test message")

	output := buf.String()
	if !strings.Contains(output, "source") {
		t.Error("caller info not included when enabled")
	}

	buf.Reset()
	logger2 := Make(&buf, WithCaller(false))
	logger2.Info("test message")

	output = buf.String()
	if strings.Contains(output, "source") {
		t.Error("caller info included when disabled")
	}
}

func TestLogger_Make_WithFormat_SetsOutputFormat(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(FormatJSON))
		logger.Info("test message", slog.String("key", "value"))

		var result map[string]any
		if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse JSON output: %v", err)
		}
		if result["msg"] != "test message" {
			t.Errorf("expected msg=test message, got %v", result["msg"])
		}
		if result["key"] != "value" {
			t.Errorf("expected key=value, got %v", result["key"])
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(FormatText), WithPretty(false))
		logger.Info("test message", slog.String("key", "value"))

		output := buf.String()
		if !strings.Contains(output, "test message") {
			t.Error("message not found in text output")
		}
		if !strings.Contains(output, "key=value") {
			t.Error("key=value not found in text output")
		}
	})
}

func TestLogger_LogMethods_RespectLevelFiltering(t *testing.T) {
	tests := []struct {
		name     string
		logFunc  func(Logger, string, ...slog.Attr)
		level    string
		minLevel Level
		logged   bool
	}{
		{"trace at trace", (Logger).Trace, "TRACE", LevelTrace, true},
		{"trace at debug", (Logger).Trace, "TRACE", LevelDebug, false},
		{"debug at debug", (Logger).Debug, "DEBUG", LevelDebug, true},
		{"debug at info", (Logger).Debug, "DEBUG", LevelInfo, false},
		{"info at info", (Logger).Info, "INFO", LevelInfo, true},
		{"info at warn", (Logger).Info, "INFO", LevelWarn, false},
		{"warn at warn", (Logger).Warn, "WARN", LevelWarn, true},
		{"warn at error", (Logger).Warn, "WARN", LevelError, false},
		{"error at error", (Logger).Error, "ERROR", LevelError, true},
		{"error at debug", (Logger).Error, "ERROR", LevelDebug, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Make(&buf, WithLevel(tt.minLevel))
			tt.logFunc(logger, "test message")

			hasOutput := buf.Len() > 0
			if hasOutput != tt.logged {
				t.Errorf(
					"expected logged=%v, got output length=%d",
					tt.logged,
					buf.Len(),
				)
			}
		})
	}
}

func TestLogger_AllLevels_LogSuccessfully(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(Logger, string, ...slog.Attr)
		level   string
	}{
		{"trace", Logger.Trace, "TRACE"},
		{"debug", Logger.Debug, "DEBUG"},
		{"info", Logger.Info, "INFO"},
		{"warn", Logger.Warn, "WARN"},
		{"error", Logger.Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Make(&buf,
				WithLevel(LevelTrace),
				WithFormat(FormatText),
				WithPretty(true))

			tt.logFunc(logger, "test message")

			output := buf.String()
			if !strings.Contains(output, "test message") {
				t.Errorf("expected %s message to be logged", tt.level)
			}
			// Verify the level name appears correctly, not "DEBUG-4" for trace
			if !strings.Contains(output, tt.level) {
				t.Errorf(
					"expected output to contain level %q, got: %s",
					tt.level,
					output,
				)
			}
		})
	}
}

func TestLogger_PrettyHandler_PreservesWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatText), WithPretty(true))
	logger = logger.With(slog.String("component", "resolver"))

	logger.Info("attached attrs")

	output := buf.String()
	if !strings.Contains(output, "component") ||
		!strings.Contains(output, "resolver") {
		t.Errorf("expected attached attribute in output, got: %s", output)
	}
}

func TestLogger_PrettyHandler_FlattensGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatText), WithPretty(true))

	logger.Info("grouped",
		slog.Group("expr", slog.String("owner", "rate_law"), slog.Int("tokens", 3)))

	output := buf.String()
	if !strings.Contains(output, "expr.owner") {
		t.Errorf("expected dotted group key in output, got: %s", output)
	}
	if !strings.Contains(output, "expr.tokens") {
		t.Errorf("expected dotted group key in output, got: %s", output)
	}
}

func TestLogger_ConcurrentCalls_ThreadSafe(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Info("concurrent message", slog.Int("id", id))
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 100 {
		t.Errorf("expected 100 log lines, got %d", len(lines))
	}
}

func TestLogger_Make_MultipleOptions_AppliesAll(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf,
		WithLevel(LevelDebug),
		WithTimeLayout("RFC3339Nano"),
		WithCaller(true),
		WithFormat(FormatText))

	logger.Debug("chained config test")

	output := buf.String()
	if !strings.Contains(output, "chained config test") {
		t.Error("message not logged after method chaining")
	}
}

func TestLogger_Wrap_OverridesConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelError))

	logger.Info("before wrap")
	if buf.Len() > 0 {
		t.Error("info message logged when level is Error")
	}

	wrapped := logger.Wrap(WithLevel(LevelInfo))
	wrapped.Info("after wrap")
	if !strings.Contains(buf.String(), "after wrap") {
		t.Error("info message not logged after wrapping with Info level")
	}

	// The original logger retains its own configuration
	if logger.Level() != LevelError {
		t.Errorf("expected original level Error, got %v", logger.Level())
	}
	if wrapped.Level() != LevelInfo {
		t.Errorf("expected wrapped level Info, got %v", wrapped.Level())
	}
}

func TestLogger_With_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatJSON))

	loggerWith := logger.With(slog.String("key", "value"))
	loggerWith.Info("test message")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to unmarshal log entry: %v", err)
	}

	if val, ok := entry["key"]; !ok || val != "value" {
		t.Errorf("expected key=value in log entry, got %v", val)
	}
}

func TestLogger_ZeroValue_Safety(t *testing.T) {
	var l Logger
	// Should not panic
	l.Trace("test")
	l.Debug("test")
	l.Info("test")
	l.Warn("test")
	l.Error("test")

	l2 := l.With(slog.String("key", "value"))
	if l2.Logger != nil {
		t.Error("expected nil logger from zero value With")
	}

	if l.Level() != DefaultLevel {
		t.Errorf("expected default level from zero value, got %v", l.Level())
	}
	if l.Format() != DefaultFormat {
		t.Errorf("expected default format from zero value, got %v", l.Format())
	}
}

func TestLogger_EmptyTimeLayout_OmitsTimeField(t *testing.T) {
	var buf bytes.Buffer
	l := Make(&buf, WithTimeLayout("none")) // "none" maps to ""
	l.Info("test")

	output := buf.String()
	if strings.Contains(output, `"time"`) {
		t.Errorf("expected no time field, got: %s", output)
	}
}

func TestLogger_ContextMethods_LogSuccessfully(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(Logger, string, ...slog.Attr)
		level   string
	}{
		{"trace", func(l Logger, msg string, attrs ...slog.Attr) {
			l.TraceContext(DefaultContextProvider(), msg, attrs...)
		}, "trace"},
		{"debug", func(l Logger, msg string, attrs ...slog.Attr) {
			l.DebugContext(DefaultContextProvider(), msg, attrs...)
		}, "debug"},
		{"info", func(l Logger, msg string, attrs ...slog.Attr) {
			l.InfoContext(DefaultContextProvider(), msg, attrs...)
		}, "info"},
		{"warn", func(l Logger, msg string, attrs ...slog.Attr) {
			l.WarnContext(DefaultContextProvider(), msg, attrs...)
		}, "warn"},
		{"error", func(l Logger, msg string, attrs ...slog.Attr) {
			l.ErrorContext(DefaultContextProvider(), msg, attrs...)
		}, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Make(&buf, WithLevel(LevelTrace))

			tt.logFunc(logger, "test message")

			output := buf.String()
			if !strings.Contains(output, "test message") {
				t.Errorf("expected %s message to be logged", tt.level)
			}
		})
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	var buf bytes.Buffer
	logger := Make(&buf)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message", slog.Int("iteration", i))
	}
}

func BenchmarkLogger_Info_WithCaller(b *testing.B) {
	var buf bytes.Buffer
	logger := Make(&buf, WithCaller(true))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message", slog.Int("iteration", i))
	}
}

func BenchmarkLogger_Info_WithAttributes(b *testing.B) {
	var buf bytes.Buffer
	logger := Make(&buf)
	logger = logger.With(slog.String("component", "test"))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message", slog.Int("iteration", i))
	}
}

func BenchmarkLogger_Info_Concurrent(b *testing.B) {
	var buf bytes.Buffer
	logger := Make(&buf)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			logger.Info("concurrent message", slog.Int("id", i))
			i++
		}
	})
}
