package logger

import (
	"context"
	"errors"
	"log/slog"
)

// MultiHandler tees each record to every sink. The server always writes
// JSON to its primary writer; Better Stack shipping is layered on through
// this handler when a token is configured.
type MultiHandler struct {
	sinks []slog.Handler
}

// NewMultiHandler builds a handler that forwards to every non-nil sink.
func NewMultiHandler(sinks ...slog.Handler) *MultiHandler {
	m := &MultiHandler{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// Enabled reports whether at least one sink accepts the level.
func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range m.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle forwards the record to each enabled sink. A failing sink does
// not stop the others; their errors are joined. Records are cloned per
// sink because handlers may hold shared attribute state.
func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, s := range m.sinks {
		if !s.Enabled(ctx, r.Level) {
			continue
		}
		if err := s.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WithAttrs applies the attributes to every sink.
func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.apply(func(s slog.Handler) slog.Handler { return s.WithAttrs(attrs) })
}

// WithGroup applies the group to every sink.
func (m *MultiHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return m
	}
	return m.apply(func(s slog.Handler) slog.Handler { return s.WithGroup(name) })
}

func (m *MultiHandler) apply(fn func(slog.Handler) slog.Handler) *MultiHandler {
	next := make([]slog.Handler, len(m.sinks))
	for i, s := range m.sinks {
		next[i] = fn(s)
	}
	return &MultiHandler{sinks: next}
}
