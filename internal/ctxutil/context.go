// Package ctxutil provides type-safe context value management.
// Uses private key types to prevent collisions.
package ctxutil

import (
	"context"
)

type contextKey string

const (
	senderIDKey  contextKey = "ctxutil.senderID"
	channelIDKey contextKey = "ctxutil.channelID"
	requestIDKey contextKey = "ctxutil.requestID"
	messageIDKey contextKey = "ctxutil.messageID"
)

// WithSenderID adds a sender ID to the context.
// Sender ID is the WhatsApp identity of the end customer and is used for
// debouncing and per-sender processing.
func WithSenderID(ctx context.Context, senderID string) context.Context {
	return context.WithValue(ctx, senderIDKey, senderID)
}

// GetSenderID retrieves the sender ID from the context.
// Returns the sender ID if found, empty string otherwise.
func GetSenderID(ctx context.Context) string {
	if v := ctx.Value(senderIDKey); v != nil {
		if senderID, ok := v.(string); ok && senderID != "" {
			return senderID
		}
	}
	return ""
}

// WithChannelID adds a channel ID to the context.
// Channel ID is the business WhatsApp number that routes an inbound
// event to a client profile.
func WithChannelID(ctx context.Context, channelID string) context.Context {
	return context.WithValue(ctx, channelIDKey, channelID)
}

// GetChannelID retrieves the channel ID from the context.
// Returns the channel ID if found, empty string otherwise.
func GetChannelID(ctx context.Context) string {
	if v := ctx.Value(channelIDKey); v != nil {
		if channelID, ok := v.(string); ok && channelID != "" {
			return channelID
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context for log correlation.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
// The second return value reports whether a request ID was present.
func GetRequestID(ctx context.Context) (string, bool) {
	if v := ctx.Value(requestIDKey); v != nil {
		if requestID, ok := v.(string); ok && requestID != "" {
			return requestID, true
		}
	}
	return "", false
}

// WithMessageID adds the provider-assigned inbound message ID to the context.
// Used for logging and correlation only.
func WithMessageID(ctx context.Context, messageID string) context.Context {
	return context.WithValue(ctx, messageIDKey, messageID)
}

// GetMessageID retrieves the provider message ID from the context.
// Returns the message ID if found, empty string otherwise.
func GetMessageID(ctx context.Context) string {
	if v := ctx.Value(messageIDKey); v != nil {
		if messageID, ok := v.(string); ok && messageID != "" {
			return messageID
		}
	}
	return ""
}
