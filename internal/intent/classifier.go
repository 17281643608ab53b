package intent

import (
	"github.com/atiendebot/atiendebot/internal/textutil"
)

// classifierRule binds an intent to its bilingual trigger phrases.
// Phrases are written in normalized form (lowercase, accent-free) and
// matched as substrings of the normalized message.
type classifierRule struct {
	intent  Intent
	phrases []string
}

// classifierRules is the fixed priority order. The order is load-bearing:
// a message containing both a price keyword and a generic "more info"
// phrase must classify as price.
var classifierRules = []classifierRule{
	{Price, []string{
		"cuanto cuesta", "cuanto vale", "cuanto es", "precio", "costo", "tarifa",
		"how much", "price", "cost",
	}},
	{Includes, []string{
		"que incluye", "incluye", "que trae", "que contiene",
		"what is included", "what does it include", "includes",
	}},
	{Duration, []string{
		"cuanto dura", "duracion", "cuanto tiempo",
		"how long", "duration",
	}},
	{GenericInfo, []string{
		"mas informacion", "mas info", "informacion", "quiero saber", "me interesa",
		"more information", "more info", "information", "tell me more",
	}},
	{Gratitude, []string{
		"gracias", "te lo agradezco", "muy amable",
		"thank you", "thanks",
	}},
	{Greeting, []string{
		"hola", "buenos dias", "buenas tardes", "buenas noches", "buenas", "que tal",
		"hello", "good morning", "good afternoon", "good evening", "hi", "hey",
	}},
}

// Classify maps a normalized message to an intent using first-match-wins
// over the fixed priority order. It is total: unmatched text yields None.
func Classify(normalized string) Intent {
	if normalized == "" {
		return None
	}
	for _, rule := range classifierRules {
		if textutil.ContainsAny(normalized, rule.phrases) {
			return rule.intent
		}
	}
	return None
}

// englishMarkers are keywords whose presence flags a message as English.
// Spanish is the default in their absence.
var englishMarkers = []string{
	"hello", "good morning", "good afternoon", "good evening",
	"price", "how much", "information", "start", "register", "book", "yes",
	"thanks", "thank you",
}

// IsEnglish reports whether the raw message reads as English.
// Detection is keyword presence on the normalized text; Spanish is the
// default language.
func IsEnglish(raw string) bool {
	return textutil.ContainsAny(textutil.Normalize(raw), englishMarkers)
}

// purchasePhrases indicate the sender wants to register, pay, or book.
// They gate whether a contact-info line may appear in a generated reply.
var purchasePhrases = []string{
	"quiero pagar", "quiero registrarme", "quiero inscribirme", "quiero comprar",
	"quiero reservar", "como empiezo", "como me registro", "como me inscribo",
	"i want to start", "i want to register", "i want to pay", "i want to book",
	"how do i start", "sign me up",
}

// HasPurchaseIntent reports whether the raw message expresses purchase or
// registration intent.
func HasPurchaseIntent(raw string) bool {
	return textutil.ContainsAny(textutil.Normalize(raw), purchasePhrases)
}

// fullCatalogPhrases mark a strong "send me everything" request that is
// answered with the full service catalog instead of a canned summary.
var fullCatalogPhrases = []string{
	"quiero saber todo", "toda la informacion", "enviame todo", "mandame todo",
	"send me everything", "all the information", "everything you have",
}

// WantsFullCatalog reports whether the raw message asks for the complete
// service catalog.
func WantsFullCatalog(raw string) bool {
	return textutil.ContainsAny(textutil.Normalize(raw), fullCatalogPhrases)
}
