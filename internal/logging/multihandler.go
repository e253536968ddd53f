package logging

import (
	"context"
	"log/slog"

	"github.com/samber/lo"
)

// MultiHandler duplicates every record to a set of child handlers so one
// logger can feed the console, the session log file and the OTel bridge at
// once. Each child applies its own level filter.
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler builds a fan-out handler. Nil children are dropped, which
// lets callers pass optional handlers unconditionally.
func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	return &MultiHandler{
		handlers: lo.Filter(handlers, func(h slog.Handler, _ int) bool { return h != nil }),
	}
}

// Enabled reports whether at least one child accepts the level.
func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return lo.SomeBy(m.handlers, func(h slog.Handler) bool { return h.Enabled(ctx, level) })
}

// Handle delivers the record to every child that accepts its level. A child
// failing to write never blocks delivery to the others.
func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		_ = h.Handle(ctx, r.Clone())
	}
	return nil
}

// WithAttrs forwards the attributes to every child.
func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &MultiHandler{
		handlers: lo.Map(m.handlers, func(h slog.Handler, _ int) slog.Handler { return h.WithAttrs(attrs) }),
	}
}

// WithGroup forwards the group to every child.
func (m *MultiHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return m
	}
	return &MultiHandler{
		handlers: lo.Map(m.handlers, func(h slog.Handler, _ int) slog.Handler { return h.WithGroup(name) }),
	}
}
