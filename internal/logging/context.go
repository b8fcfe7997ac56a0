package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldCommand is the key for the resolved command path, e.g. "waypoints upload".
	FieldCommand = "command"
	// FieldDevice is the key for the recorder driver in use.
	FieldDevice = "device"
)

type contextKey int

const (
	commandKey contextKey = iota
	deviceKey
)

// WithCommand records the resolved command path on ctx.
func WithCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, commandKey, command)
}

// WithDevice records the recorder driver name on ctx.
func WithDevice(ctx context.Context, driver string) context.Context {
	return context.WithValue(ctx, deviceKey, driver)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var fields []slog.Attr
	if cmd, ok := ctx.Value(commandKey).(string); ok && cmd != "" {
		fields = append(fields, slog.String(FieldCommand, cmd))
	}
	if drv, ok := ctx.Value(deviceKey).(string); ok && drv != "" {
		fields = append(fields, slog.String(FieldDevice, drv))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		args = append(args, f)
	}
	return logger.With(args...)
}
