package genai

import (
	"fmt"
	"strings"
)

// PromptInput carries the client profile fields and message facts the
// reply prompt embeds. Kept flat so callers do not need to import the
// registry types.
type PromptInput struct {
	BusinessName   string
	ServiceCatalog string
	OpeningHours   string
	ContactEmail   string
	ContactPhone   string

	UserMessage    string
	English        bool
	FirstMessage   bool
	PurchaseIntent bool
}

// BuildReplyPrompt builds the single instruction prompt for a generative
// reply. The behavioral constraints live in the prompt itself; the
// sanitizer enforces them again on the output.
func BuildReplyPrompt(in PromptInput) string {
	var b strings.Builder

	if in.English {
		fmt.Fprintf(&b, "You are the WhatsApp assistant for %s.\n\n", in.BusinessName)
		fmt.Fprintf(&b, "Services offered:\n%s\n\n", in.ServiceCatalog)
		fmt.Fprintf(&b, "Opening hours: %s\n", in.OpeningHours)
		fmt.Fprintf(&b, "Contact email: %s\n", in.ContactEmail)
		fmt.Fprintf(&b, "Contact phone: %s\n\n", in.ContactPhone)
		b.WriteString("Rules:\n")
		b.WriteString("- Answer in a single short message, in English.\n")
		if in.FirstMessage {
			b.WriteString("- You may open with a brief greeting.\n")
		} else {
			b.WriteString("- Do not greet; the conversation is already underway.\n")
		}
		b.WriteString("- Mention opening hours only if the customer asks about schedules.\n")
		if in.PurchaseIntent {
			b.WriteString("- The customer wants to sign up: close with how to contact us.\n")
		} else {
			b.WriteString("- Do not add a \"for more information, contact us\" line.\n")
		}
		b.WriteString("- Never invent services, prices, or facts outside the list above.\n\n")
		fmt.Fprintf(&b, "Customer message: %q\n", in.UserMessage)
		return b.String()
	}

	fmt.Fprintf(&b, "Eres el asistente de WhatsApp de %s.\n\n", in.BusinessName)
	fmt.Fprintf(&b, "Servicios que ofrecemos:\n%s\n\n", in.ServiceCatalog)
	fmt.Fprintf(&b, "Horario de atención: %s\n", in.OpeningHours)
	fmt.Fprintf(&b, "Correo de contacto: %s\n", in.ContactEmail)
	fmt.Fprintf(&b, "Teléfono de contacto: %s\n\n", in.ContactPhone)
	b.WriteString("Reglas:\n")
	b.WriteString("- Responde en un solo mensaje corto, en español.\n")
	if in.FirstMessage {
		b.WriteString("- Puedes abrir con un saludo breve.\n")
	} else {
		b.WriteString("- No saludes; la conversación ya está en curso.\n")
	}
	b.WriteString("- Menciona el horario solo si el cliente pregunta por horarios.\n")
	if in.PurchaseIntent {
		b.WriteString("- El cliente quiere inscribirse: cierra indicando cómo contactarnos.\n")
	} else {
		b.WriteString("- No agregues una línea de \"para más información, contáctanos\".\n")
	}
	b.WriteString("- Nunca inventes servicios, precios ni datos fuera de la lista anterior.\n\n")
	fmt.Fprintf(&b, "Mensaje del cliente: %q\n", in.UserMessage)
	return b.String()
}
