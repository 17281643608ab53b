// Package registry owns client profiles: the per-tenant business data the
// reply pipeline reads, keyed by the WhatsApp channel the business rents.
package registry

import "strings"

// ClientProfile describes one registered business.
type ClientProfile struct {
	ID             int64
	BusinessName   string
	OwnerName      string
	ChannelID      string // WhatsApp number routing inbound events to this tenant
	OwnerPhone     string // Owner's personal number, used at registration time
	ServiceCatalog string // Free text
	OpeningHours   string // Free text
	ContactEmail   string
	ContactPhone   string
	CreatedAt      int64 // Unix seconds
	UpdatedAt      int64 // Unix seconds
}

// Complete reports whether every field the generative prompt embeds is
// present. Incomplete profiles route to the misconfigured canned reply.
func (p *ClientProfile) Complete() bool {
	return len(p.MissingFields()) == 0
}

// MissingFields lists the empty prompt-relevant fields, for logging.
func (p *ClientProfile) MissingFields() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"business_name", p.BusinessName},
		{"owner_name", p.OwnerName},
		{"service_catalog", p.ServiceCatalog},
		{"opening_hours", p.OpeningHours},
		{"contact_email", p.ContactEmail},
		{"contact_phone", p.ContactPhone},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
