// Package webhook receives WhatsApp callbacks and the client registration
// API, acknowledging the transport immediately and deferring all pipeline
// work to the dispatcher.
package webhook

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atiendebot/atiendebot/internal/logger"
	"github.com/atiendebot/atiendebot/internal/metrics"
	"github.com/atiendebot/atiendebot/internal/transport"
)

// emptyTwiML tells Twilio not to auto-reply; the pipeline sends the real
// reply through the REST API once processing finishes.
const emptyTwiML = `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`

// Dispatcher schedules a parsed inbound message for deferred processing.
type Dispatcher interface {
	Enqueue(msg transport.InboundMessage) bool
}

// Handler handles inbound WhatsApp webhook callbacks.
type Handler struct {
	dispatcher Dispatcher
	logger     *logger.Logger
	metrics    *metrics.Metrics
}

// HandlerConfig holds configuration for creating a new Handler.
type HandlerConfig struct {
	Dispatcher Dispatcher
	Logger     *logger.Logger
	Metrics    *metrics.Metrics
}

// NewHandler creates a new webhook handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		dispatcher: cfg.Dispatcher,
		logger:     cfg.Logger.WithModule("webhook"),
		metrics:    cfg.Metrics,
	}
}

// HandleWhatsApp is the Gin handler for the WhatsApp webhook endpoint.
// The acknowledgment never depends on the pipeline outcome.
func (h *Handler) HandleWhatsApp(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		h.logger.WithError(err).Warnf("Failed to parse webhook form")
		h.recordWebhook("bad_request")
		c.Status(http.StatusBadRequest)
		return
	}

	msg, err := transport.ParseInbound(c.Request.PostForm)
	if err != nil {
		if errors.Is(err, transport.ErrMissingSender) {
			h.logger.Warnf("Webhook callback without sender; ignoring")
			h.recordWebhook("missing_sender")
			// Still acknowledged: Twilio retries on non-2xx and a
			// malformed callback will not improve on retry.
			c.Data(http.StatusOK, "text/xml", []byte(emptyTwiML))
			return
		}
		h.logger.WithError(err).Warnf("Failed to parse webhook payload")
		h.recordWebhook("bad_request")
		c.Status(http.StatusBadRequest)
		return
	}

	if h.dispatcher.Enqueue(msg) {
		h.recordWebhook("accepted")
	} else {
		h.recordWebhook("dropped")
	}

	c.Data(http.StatusOK, "text/xml", []byte(emptyTwiML))
}

func (h *Handler) recordWebhook(status string) {
	if h.metrics != nil {
		h.metrics.RecordWebhook(status)
	}
}
