package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Styles used by the pretty text handler.
// Color codes refer to the standard 16-color terminal palette so the output
// respects the user's terminal theme.
var (
	styleKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleString   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleNumber   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleTrue     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleFalse    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleDuration = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	styleTime     = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))

	styleTrace = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	styleDebug = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	styleInfo  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// levelStyle selects the style for a log level by severity.
func levelStyle(level slog.Level) lipgloss.Style {
	switch {
	case level >= slog.Level(LevelError):
		return styleError
	case level >= slog.Level(LevelWarn):
		return styleWarn
	case level >= slog.Level(LevelInfo):
		return styleInfo
	case level >= slog.Level(LevelDebug):
		return styleDebug
	default:
		return styleTrace
	}
}

// prettyTextHandler implements a colorized text handler for log messages.
type prettyTextHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	groups []string
	attrs  []slog.Attr
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{
		opts:   *opts,
		mu:     &sync.Mutex{},
		w:      w,
		groups: []string{},
		attrs:  []slog.Attr{},
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.Level(DefaultLevel)
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	rep := h.opts.ReplaceAttr

	// Write time if configured
	if !r.Time.IsZero() {
		timeAttr := slog.Time(slog.TimeKey, r.Time)
		if rep != nil {
			timeAttr = rep(nil, timeAttr)
		}

		if !timeAttr.Equal(slog.Attr{}) {
			h.writeAttr(buf, timeAttr)
		}
	}

	// Write level, styled by record severity even when the attr value was
	// replaced with a plain string
	levelAttr := slog.Any(slog.LevelKey, r.Level)
	if rep != nil {
		levelAttr = rep(nil, levelAttr)
	}

	if !levelAttr.Equal(slog.Attr{}) {
		h.writeLevel(buf, levelAttr, r.Level)
	}

	// Write source if configured
	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			// Format as file:line
			sourceStr := fmt.Sprintf("%s:%d", src.File, src.Line)
			sourceAttr := slog.String(slog.SourceKey, sourceStr)
			h.writeAttr(buf, sourceAttr)
		}
	}

	// Write message
	msgAttr := slog.String(slog.MessageKey, r.Message)
	h.writeAttr(buf, msgAttr)

	// Write attributes accumulated by WithAttrs, already qualified
	for _, a := range h.attrs {
		h.writeAttr(buf, a)
	}

	// Write each record attribute qualified by the open groups
	r.Attrs(func(a slog.Attr) bool {
		a.Key = h.qualify(a.Key)
		h.writeAttr(buf, a)

		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())
	if err != nil {
		return err
	}

	_, err = h.w.Write([]byte("\n"))

	return err
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	qualified := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		a.Key = h.qualify(a.Key)
		qualified = append(qualified, a)
	}

	return &prettyTextHandler{
		opts:   h.opts,
		mu:     h.mu,
		w:      h.w,
		groups: h.groups,
		attrs:  append(h.attrs[:len(h.attrs):len(h.attrs)], qualified...),
	}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return &prettyTextHandler{
		opts:   h.opts,
		mu:     h.mu,
		w:      h.w,
		groups: append(h.groups[:len(h.groups):len(h.groups)], name),
		attrs:  h.attrs,
	}
}

// qualify prefixes an attribute key with the open group names.
func (h *prettyTextHandler) qualify(key string) string {
	if len(h.groups) == 0 {
		return key
	}

	return strings.Join(h.groups, ".") + "." + key
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, a slog.Attr) {
	a.Value = a.Value.Resolve()

	// Flatten groups into dotted keys
	if a.Value.Kind() == slog.KindGroup {
		for _, member := range a.Value.Group() {
			if a.Key != "" {
				member.Key = a.Key + "." + member.Key
			}

			h.writeAttr(buf, member)
		}

		return
	}

	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(styleKey.Render(a.Key))
	buf.WriteByte('=')

	// Write value in color based on type
	h.writeValue(buf, a.Value)
}

func (h *prettyTextHandler) writeLevel(
	buf *bytes.Buffer,
	a slog.Attr,
	level slog.Level,
) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(styleKey.Render(a.Key))
	buf.WriteByte('=')
	buf.WriteString(levelStyle(level).Render(a.Value.String()))
}

func (h *prettyTextHandler) writeValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindString:
		// String values without quotes
		buf.WriteString(styleString.Render(v.String()))

	case slog.KindInt64:
		buf.WriteString(styleNumber.Render(strconv.FormatInt(v.Int64(), 10)))

	case slog.KindUint64:
		buf.WriteString(styleNumber.Render(strconv.FormatUint(v.Uint64(), 10)))

	case slog.KindFloat64:
		buf.WriteString(
			styleNumber.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64)),
		)

	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(styleTrue.Render("true"))
		} else {
			buf.WriteString(styleFalse.Render("false"))
		}

	case slog.KindDuration:
		buf.WriteString(styleDuration.Render(v.Duration().String()))

	case slog.KindTime:
		buf.WriteString(styleTime.Render(v.Time().String()))

	default:
		// Fallback for other types
		buf.WriteString(styleString.Render(v.String()))
	}
}
