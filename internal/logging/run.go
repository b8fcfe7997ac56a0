package logging

import (
	"context"
	"log/slog"
)

// FieldSessionID groups every line written by one flightrec invocation.
const FieldSessionID = "session_id"

// runHandler stamps each record with the invocation's session id and with
// the command and device carried on the record's context. Keys already
// bound on the logger or set on the record win over the context values.
type runHandler struct {
	base      slog.Handler
	sessionID string
	bound     map[string]bool
	grouped   bool
}

func newRunHandler(base slog.Handler, sessionID string) slog.Handler {
	return &runHandler{base: base, sessionID: sessionID}
}

func (h *runHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *runHandler) Handle(ctx context.Context, record slog.Record) error {
	fields := ContextFields(ctx)
	if len(fields) > 0 && !h.grouped {
		present := make(map[string]bool, record.NumAttrs())
		record.Attrs(func(a slog.Attr) bool {
			present[a.Key] = true
			return true
		})
		for _, f := range fields {
			if !h.bound[f.Key] && !present[f.Key] {
				record.AddAttrs(f)
			}
		}
	}
	if h.sessionID != "" {
		record.AddAttrs(slog.String(FieldSessionID, h.sessionID))
	}
	return h.base.Handle(ctx, record)
}

func (h *runHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	next.base = h.base.WithAttrs(attrs)
	if !h.grouped {
		next.bound = make(map[string]bool, len(h.bound)+len(attrs))
		for k := range h.bound {
			next.bound[k] = true
		}
		for _, a := range attrs {
			next.bound[a.Key] = true
		}
	}
	return next
}

// Context fields are top-level keys; inside a group they would land under
// the group name, so they are dropped there.
func (h *runHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.base = h.base.WithGroup(name)
	next.grouped = true
	return next
}

func (h *runHandler) clone() *runHandler {
	c := *h
	return &c
}
