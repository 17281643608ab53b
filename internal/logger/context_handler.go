// Package logger provides structured logging utilities for the application.
package logger

import (
	"context"
	"log/slog"

	"github.com/atiendebot/atiendebot/internal/ctxutil"
)

// ContextHandler is a slog.Handler that automatically extracts tracing
// values (senderID, channelID, requestID, messageID) from the context and
// adds them as attributes to log records.
//
// It wraps another handler so call sites don't have to extract and pass
// these values manually.
type ContextHandler struct {
	handler slog.Handler
}

// NewContextHandler creates a new ContextHandler that wraps the provided handler.
func NewContextHandler(handler slog.Handler) *ContextHandler {
	return &ContextHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// This delegates to the wrapped handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle processes the log record by extracting context values and adding
// them as attributes before delegating to the wrapped handler.
//
// Context values extracted:
// - sender_id: WhatsApp identity of the end customer
// - channel_id: business WhatsApp number routing the conversation
// - request_id: request ID for log correlation and tracing
// - message_id: provider-assigned inbound message ID
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if senderID := ctxutil.GetSenderID(ctx); senderID != "" {
		r.AddAttrs(slog.String("sender_id", senderID))
	}

	if channelID := ctxutil.GetChannelID(ctx); channelID != "" {
		r.AddAttrs(slog.String("channel_id", channelID))
	}

	if requestID, ok := ctxutil.GetRequestID(ctx); ok && requestID != "" {
		r.AddAttrs(slog.String("request_id", requestID))
	}

	if messageID := ctxutil.GetMessageID(ctx); messageID != "" {
		r.AddAttrs(slog.String("message_id", messageID))
	}

	return h.handler.Handle(ctx, r)
}

// WithAttrs returns a new ContextHandler whose attributes consist of
// both the receiver's attributes and the arguments.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{handler: h.handler.WithAttrs(attrs)}
}

// WithGroup returns a new ContextHandler with the given group name prepended
// to the current group name.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{handler: h.handler.WithGroup(name)}
}
