// Package reply holds the canned, localized reply templates and the
// template responder that short-circuits generation for specific intents.
package reply

import (
	"fmt"

	"github.com/atiendebot/atiendebot/internal/intent"
)

// template holds the Spanish and English renditions of a canned reply.
type template struct {
	es string
	en string
}

func (t template) pick(english bool) string {
	if english {
		return t.en
	}
	return t.es
}

// cannedReplies are fixed answers for the template-responder intents.
// They are canned facts, deliberately independent of per-client wording.
var cannedReplies = map[intent.Intent]template{
	intent.Price: {
		es: "💰 El programa tiene un costo único de $1,499 MXN, con opción de pago en dos partes. Escríbenos \"quiero registrarme\" para apartar tu lugar.",
		en: "💰 The program has a one-time cost of $1,499 MXN, with a two-part payment option. Reply \"I want to register\" to reserve your spot.",
	},
	intent.Includes: {
		es: "📦 El programa incluye: acceso completo al contenido, sesiones semanales en vivo, material descargable y soporte por WhatsApp durante toda tu participación.",
		en: "📦 The program includes: full access to the content, weekly live sessions, downloadable material, and WhatsApp support for the duration of your participation.",
	},
	intent.Duration: {
		es: "⏳ El programa dura 8 semanas, con sesiones en vivo una vez por semana. Puedes avanzar a tu ritmo con el material grabado.",
		en: "⏳ The program runs for 8 weeks, with one live session per week. You can move at your own pace with the recorded material.",
	},
	intent.GenericInfo: {
		es: "ℹ️ Con gusto te compartimos los detalles: tenemos un programa completo con acompañamiento personalizado. Responde \"quiero saber todo\" y te envío la información completa.",
		en: "ℹ️ Happy to share the details: we offer a complete program with personalized guidance. Reply \"send me everything\" and I'll send you the full information.",
	},
}

// Canned returns the fixed localized reply for a template-responder
// intent. The second return value is false when the intent has no canned
// reply and the pipeline should fall through to generation.
func Canned(i intent.Intent, english bool) (string, bool) {
	t, ok := cannedReplies[i]
	if !ok {
		return "", false
	}
	return t.pick(english), true
}

// Fixed high-frequency replies applied as post-sanitizer overrides and
// error-path messages.
var (
	greeting = template{
		es: "¡Hola! 👋 Bienvenido(a), soy el asistente virtual. ¿En qué puedo ayudarte hoy?",
		en: "Hello! 👋 Welcome, I'm the virtual assistant. How can I help you today?",
	}
	gratitude = template{
		es: "¡Con mucho gusto! 😊 Si necesitas algo más, aquí estoy.",
		en: "You're very welcome! 😊 If you need anything else, I'm here.",
	}
	notConfigured = template{
		es: "Este número aún no está configurado para atención automática. Intenta más tarde, por favor.",
		en: "This number is not yet set up for automated replies. Please try again later.",
	}
	misconfigured = template{
		es: "⚠️ Este asistente no está completamente configurado. Por favor contacta al administrador del negocio.",
		en: "⚠️ This assistant is not fully configured. Please contact the business administrator.",
	}
	catalogHeader = template{
		es: "📋 Aquí tienes toda la información que pediste:",
		en: "📋 Here is all the information you requested:",
	}
	catalogFooter = template{
		es: "✅ Eso es todo. Si tienes dudas, escríbeme con confianza.",
		en: "✅ That's everything. If you have questions, just write back.",
	}
)

// GreetingReply returns the fixed localized greeting used on the first
// message of a session.
func GreetingReply(english bool) string {
	return greeting.pick(english)
}

// GratitudeReply returns the fixed localized acknowledgment for thanks.
func GratitudeReply(english bool) string {
	return gratitude.pick(english)
}

// NotConfiguredReply is sent when the channel has no registered profile.
func NotConfiguredReply(english bool) string {
	return notConfigured.pick(english)
}

// MisconfiguredReply is sent when the profile is missing required fields.
func MisconfiguredReply(english bool) string {
	return misconfigured.pick(english)
}

// CatalogHeader is the localized first-chunk prefix for full-catalog replies.
func CatalogHeader(english bool) string {
	return catalogHeader.pick(english)
}

// CatalogFooter is the localized last-chunk suffix for full-catalog replies.
func CatalogFooter(english bool) string {
	return catalogFooter.pick(english)
}

// Welcome returns the onboarding message sent to a business owner right
// after their chatbot is registered.
func Welcome(ownerName, businessName, openingHours string) string {
	return fmt.Sprintf("¡Hola %s! Tu chatbot para %s ha sido creado. Atendemos en el horario: %s", ownerName, businessName, openingHours)
}
