package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	domerrors "github.com/atiendebot/atiendebot/internal/errors"
)

// DefaultTwilioBaseURL is the production Twilio REST endpoint. Tests and
// local setups override it.
const DefaultTwilioBaseURL = "https://api.twilio.com"

// Sender delivers one outbound message and returns the provider's
// delivery id.
type Sender interface {
	Send(ctx context.Context, from, to, body string) (string, error)
}

// TwilioConfig configures a TwilioClient.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	BaseURL    string        // Defaults to DefaultTwilioBaseURL
	Timeout    time.Duration // Per-request timeout
}

// TwilioClient sends WhatsApp messages through Twilio's REST API.
// It implements the Sender interface.
type TwilioClient struct {
	httpClient *http.Client
	accountSID string
	authToken  string
	baseURL    string
}

// NewTwilioClient creates a Twilio REST sender.
func NewTwilioClient(cfg TwilioConfig) *TwilioClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultTwilioBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &TwilioClient{
		httpClient: &http.Client{Timeout: timeout},
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// twilioMessageResponse is the subset of Twilio's create-message response
// the sender cares about.
type twilioMessageResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Message string `json:"message"` // Error detail on non-2xx responses
}

// Send posts one message and returns Twilio's message sid.
func (c *TwilioClient) Send(ctx context.Context, from, to, body string) (string, error) {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)

	form := url.Values{}
	form.Set("From", from)
	form.Set("To", to)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", domerrors.NewDeliveryError(to, 0, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "message delivery failed",
			"to", to,
			"duration_ms", duration.Milliseconds(),
			"error", err)
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			err = fmt.Errorf("%w: %v", domerrors.ErrTimeout, err)
		}
		return "", domerrors.NewDeliveryError(to, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", domerrors.NewDeliveryError(to, resp.StatusCode, err)
	}

	var msg twilioMessageResponse
	if err := json.Unmarshal(payload, &msg); err != nil && resp.StatusCode < 300 {
		return "", domerrors.NewDeliveryError(to, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}

	if resp.StatusCode >= 300 {
		detail := msg.Message
		if detail == "" {
			detail = http.StatusText(resp.StatusCode)
		}
		slog.WarnContext(ctx, "message delivery rejected",
			"to", to,
			"status", resp.StatusCode,
			"detail", detail,
			"duration_ms", duration.Milliseconds())
		return "", domerrors.NewDeliveryError(to, resp.StatusCode, fmt.Errorf("twilio rejected message: %s", detail))
	}

	slog.DebugContext(ctx, "message delivered",
		"to", to,
		"delivery_id", msg.SID,
		"duration_ms", duration.Milliseconds())

	return msg.SID, nil
}
