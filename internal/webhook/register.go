package webhook

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domerrors "github.com/atiendebot/atiendebot/internal/errors"
	"github.com/atiendebot/atiendebot/internal/logger"
	"github.com/atiendebot/atiendebot/internal/registry"
	"github.com/atiendebot/atiendebot/internal/reply"
	"github.com/atiendebot/atiendebot/internal/transport"
)

// ProfileStore persists and retrieves client profiles.
type ProfileStore interface {
	Upsert(ctx context.Context, p *registry.ClientProfile) (*registry.ClientProfile, error)
	LookupByChannel(ctx context.Context, channelID string) (*registry.ClientProfile, error)
	LookupByOwnerPhone(ctx context.Context, phone string) (*registry.ClientProfile, error)
}

// RegisterHandler handles client registration and lookup requests.
type RegisterHandler struct {
	registry       ProfileStore
	sender         transport.Sender
	defaultChannel string // Channel assigned when the request names none
	logger         *logger.Logger
}

// RegisterHandlerConfig holds configuration for creating a RegisterHandler.
type RegisterHandlerConfig struct {
	Registry       ProfileStore
	Sender         transport.Sender
	DefaultChannel string
	Logger         *logger.Logger
}

// NewRegisterHandler creates a new registration handler.
func NewRegisterHandler(cfg RegisterHandlerConfig) *RegisterHandler {
	return &RegisterHandler{
		registry:       cfg.Registry,
		sender:         cfg.Sender,
		defaultChannel: cfg.DefaultChannel,
		logger:         cfg.Logger.WithModule("register"),
	}
}

// registerRequest is the client registration payload.
type registerRequest struct {
	BusinessName   string `json:"businessName"`
	OwnerName      string `json:"ownerName"`
	WhatsappNumber string `json:"whatsappNumber"` // Owner's WhatsApp, receives the welcome message
	ChannelID      string `json:"channelId"`      // Optional; defaults to the service's own number
	ServiceCatalog string `json:"serviceCatalog"`
	OpeningHours   string `json:"openingHours"`
	ContactEmail   string `json:"contactEmail"`
	ContactPhone   string `json:"contactPhone"`
}

// HandleRegister creates or updates a client profile and sends the owner
// a welcome message.
func (h *RegisterHandler) HandleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	if missing := requiredFields(req); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing required fields",
			"missing": missing,
		})
		return
	}

	ownerPhone := normalizeWhatsApp(req.WhatsappNumber)

	channelID := strings.TrimSpace(req.ChannelID)
	if channelID == "" {
		// An owner re-registering without naming a channel keeps the
		// channel they already have instead of falling back to the
		// shared default.
		if existing, err := h.registry.LookupByOwnerPhone(c.Request.Context(), ownerPhone); err == nil {
			channelID = existing.ChannelID
		} else {
			channelID = h.defaultChannel
		}
	}

	profile := &registry.ClientProfile{
		BusinessName:   strings.TrimSpace(req.BusinessName),
		OwnerName:      strings.TrimSpace(req.OwnerName),
		ChannelID:      normalizeWhatsApp(channelID),
		OwnerPhone:     ownerPhone,
		ServiceCatalog: strings.TrimSpace(req.ServiceCatalog),
		OpeningHours:   strings.TrimSpace(req.OpeningHours),
		ContactEmail:   strings.TrimSpace(req.ContactEmail),
		ContactPhone:   strings.TrimSpace(req.ContactPhone),
	}

	saved, err := h.registry.Upsert(c.Request.Context(), profile)
	if err != nil {
		h.logger.WithError(err).Errorf("Failed to save client profile")
		status := http.StatusInternalServerError
		if domerrors.IsInvalidInput(err) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": domerrors.GetUserMessage(err)})
		return
	}

	welcome := reply.Welcome(saved.OwnerName, saved.BusinessName, saved.OpeningHours)
	if _, err := h.sender.Send(c.Request.Context(), saved.ChannelID, ownerPhone, welcome); err != nil {
		h.logger.WithError(err).
			WithField("owner_phone", ownerPhone).
			Errorf("Profile saved but welcome message failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send welcome message"})
		return
	}

	h.logger.WithField("channel_id", saved.ChannelID).
		WithField("business", saved.BusinessName).
		Infof("Client registered")

	c.JSON(http.StatusCreated, gin.H{
		"id":        saved.ID,
		"channelId": saved.ChannelID,
	})
}

// HandleGet returns the stored profile for a channel.
func (h *RegisterHandler) HandleGet(c *gin.Context) {
	channelID := normalizeWhatsApp(c.Param("channel"))
	if channelID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing channel"})
		return
	}

	profile, err := h.registry.LookupByChannel(c.Request.Context(), channelID)
	if err != nil {
		if domerrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown channel"})
			return
		}
		h.logger.WithError(err).WithField("channel_id", channelID).Errorf("Profile lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":             profile.ID,
		"businessName":   profile.BusinessName,
		"ownerName":      profile.OwnerName,
		"channelId":      profile.ChannelID,
		"whatsappNumber": profile.OwnerPhone,
		"serviceCatalog": profile.ServiceCatalog,
		"openingHours":   profile.OpeningHours,
		"contactEmail":   profile.ContactEmail,
		"contactPhone":   profile.ContactPhone,
		"createdAt":      profile.CreatedAt,
		"updatedAt":      profile.UpdatedAt,
	})
}

func requiredFields(req registerRequest) []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"businessName", req.BusinessName},
		{"ownerName", req.OwnerName},
		{"whatsappNumber", req.WhatsappNumber},
		{"openingHours", req.OpeningHours},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// normalizeWhatsApp ensures the provider's "whatsapp:" prefix.
func normalizeWhatsApp(number string) string {
	number = strings.TrimSpace(number)
	if number == "" || strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}
