package logging

import (
	"log/slog"
)

// Keys shared by every component that logs about a sync.
const (
	FieldComponent = "component"
	FieldWaypoint  = "waypoint"
	FieldPass      = "pass"
	FieldError     = "error"
)

// Error returns the error attribute; a nil error is omitted from output.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(FieldError, err.Error())
}

// Waypoint names the waypoint a line is about.
func Waypoint(name string) slog.Attr {
	return slog.String(FieldWaypoint, name)
}

// Pass numbers the upload and verify pass, starting at 1.
func Pass(n int) slog.Attr {
	return slog.Int(FieldPass, n)
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewComponentLogger tags logger with a component name. A nil logger
// yields a discarding one.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(slog.String(FieldComponent, component))
}
