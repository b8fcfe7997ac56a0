package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"flightrec/internal/config"
)

// LogFileName is the file written under paths.log_dir.
const LogFileName = "flightrec.log"

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// Writer receives log lines. It defaults to stderr.
	Writer io.Writer
	// FilePath, when set, appends a copy of every line to that file.
	FilePath  string
	SessionID string
}

// New constructs a slog logger using the provided options. The returned
// close function releases the log file, if any.
func New(opts Options) (*slog.Logger, func() error, error) {
	level := new(slog.LevelVar)
	level.Set(ParseLevel(opts.Level))

	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}
	closeFn := func() error { return nil }
	if path := strings.TrimSpace(opts.FilePath); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("ensure log directory: %w", err)
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
		}
		writer = io.MultiWriter(writer, file)
		closeFn = file.Close
	}

	addSource := level.Level() <= slog.LevelDebug

	var handler slog.Handler
	switch format := strings.ToLower(strings.TrimSpace(opts.Format)); format {
	case "json":
		handler = newJSONHandler(writer, level, addSource)
	case "", "console":
		handler = newPrettyHandler(writer, level, addSource)
	default:
		_ = closeFn()
		return nil, nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
	return slog.New(newRunHandler(handler, opts.SessionID)), closeFn, nil
}

// NewFromConfig creates a logger from the [logging] and [paths] sections,
// writing to w (stderr when nil) and to the log file.
func NewFromConfig(cfg *config.Config, w io.Writer, sessionID string) (*slog.Logger, func() error, error) {
	if cfg == nil {
		return New(Options{Writer: w, SessionID: sessionID})
	}
	opts := Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Writer:    w,
		SessionID: sessionID,
	}
	if cfg.Paths.LogDir != "" {
		opts.FilePath = filepath.Join(cfg.Paths.LogDir, LogFileName)
	}
	return New(opts)
}

// ParseLevel maps a level name onto slog levels, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	opts := slog.HandlerOptions{
		Level:     lvl,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				if attr.Value.Kind() == slog.KindTime {
					attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
				}
			case slog.LevelKey:
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			case slog.SourceKey:
				if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
					attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return attr
		},
	}
	return slog.NewJSONHandler(w, &opts)
}
