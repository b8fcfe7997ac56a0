package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const consoleTimeLayout = "2006-01-02 15:04:05"

// prettyHandler renders one header line per record followed by indented
// fields. The component attribute is lifted into the header.
type prettyHandler struct {
	mu        *sync.Mutex
	writer    io.Writer
	level     *slog.LevelVar
	attrs     []kv
	groups    []string
	addSource bool
}

type kv struct {
	key   string
	value slog.Value
}

func newPrettyHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &prettyHandler{mu: &sync.Mutex{}, writer: w, level: lvl, addSource: addSource}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, record slog.Record) error {
	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	fields := make([]kv, 0, record.NumAttrs()+len(h.attrs))
	fields = append(fields, h.attrs...)
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&fields, h.groups, attr)
		return true
	})

	component := ""
	kept := fields[:0]
	for _, f := range fields {
		if f.key == FieldComponent {
			component = f.value.String()
			continue
		}
		kept = append(kept, f)
	}

	var buf bytes.Buffer
	buf.WriteString(ts.Local().Format(consoleTimeLayout))
	buf.WriteByte(' ')
	buf.WriteString(levelLabel(record.Level))
	if component != "" {
		buf.WriteString(" [")
		buf.WriteString(component)
		buf.WriteByte(']')
	}
	message := strings.TrimSpace(record.Message)
	if message == "" {
		message = "(no message)"
	}
	buf.WriteString(" – ")
	buf.WriteString(message)
	if h.addSource && record.PC != 0 {
		if src := record.Source(); src != nil {
			buf.WriteString(" [")
			buf.WriteString(filepath.Base(src.File))
			buf.WriteByte(':')
			buf.WriteString(strconv.Itoa(src.Line))
			buf.WriteByte(']')
		}
	}
	buf.WriteByte('\n')
	for _, f := range dedupeByKey(kept) {
		buf.WriteString("    ")
		buf.WriteString(f.key)
		buf.WriteString(": ")
		buf.WriteString(formatValue(f.value))
		buf.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]kv{}, h.attrs...)
	for _, attr := range attrs {
		flattenAttr(&clone.attrs, h.groups, attr)
	}
	return &clone
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string{}, h.groups...), name)
	return &clone
}

func flattenAttr(dst *[]kv, groups []string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}
	if attr.Value.Kind() == slog.KindGroup {
		next := groups
		if attr.Key != "" {
			next = append(append([]string{}, groups...), attr.Key)
		}
		for _, inner := range attr.Value.Group() {
			flattenAttr(dst, next, inner)
		}
		return
	}
	key := attr.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	*dst = append(*dst, kv{key: key, value: attr.Value})
}

// dedupeByKey keeps the last value for each key, in first-seen order.
func dedupeByKey(fields []kv) []kv {
	index := make(map[string]int, len(fields))
	out := make([]kv, 0, len(fields))
	for _, f := range fields {
		if i, ok := index[f.key]; ok {
			out[i] = f
			continue
		}
		index[f.key] = len(out)
		out = append(out, f)
	}
	return out
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN "
	case level >= slog.LevelInfo:
		return "INFO "
	default:
		return "DEBUG"
	}
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if needsQuotes(s) {
			return strconv.Quote(s)
		}
		return s
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	default:
		return v.String()
	}
}

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	return strings.ContainsAny(s, "\n\r\t\"")
}
