// Package transport carries messages to and from the WhatsApp provider:
// inbound webhook form parsing and the outbound Twilio REST client.
package transport

import (
	"errors"
	"net/url"
	"strings"
)

// InboundMessage is one webhook callback's payload. Immutable once parsed.
type InboundMessage struct {
	From       string // Sender identifier, e.g. "whatsapp:+5215550123"
	To         string // Channel identifier the business rents
	Body       string // Raw message text
	MessageSID string // Provider-assigned id, used for logging only
}

// ErrMissingSender is returned when the form carries no From value.
var ErrMissingSender = errors.New("inbound form missing From")

// ParseInbound extracts an InboundMessage from Twilio's webhook form
// fields. Only From is mandatory; a missing To is surfaced by the
// pipeline as a channel problem, not a parse failure.
func ParseInbound(form url.Values) (InboundMessage, error) {
	msg := InboundMessage{
		From:       strings.TrimSpace(form.Get("From")),
		To:         strings.TrimSpace(form.Get("To")),
		Body:       form.Get("Body"),
		MessageSID: strings.TrimSpace(form.Get("MessageSid")),
	}
	if msg.From == "" {
		return InboundMessage{}, ErrMissingSender
	}
	return msg, nil
}
