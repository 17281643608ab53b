// Package sanitize cleans generative output before delivery. The chain is
// a strictly ordered list of pure text transforms; order matters and each
// step is independently testable.
package sanitize

import (
	"strings"
	"unicode"

	"github.com/atiendebot/atiendebot/internal/textutil"
)

// Input carries the per-message facts the transforms depend on.
type Input struct {
	// UserMessage is the raw inbound text (not the generated reply).
	UserMessage string

	// English selects the localized marker and greeting sets.
	English bool

	// FirstMessage is true when this is the sender's first message of the
	// session; leading greetings are preserved only then.
	FirstMessage bool

	// PurchaseIntent gates whether a contact-info line may survive.
	PurchaseIntent bool
}

// Step is one named transform in the chain.
type Step struct {
	Name string
	Fn   func(text string, in Input) string
}

// contactMarkers flag the "for more information" contact line, matched on
// normalized sentence text so accents and casing cannot hide it.
var contactMarkers = []string{
	"para mas informacion", "para mayor informacion",
	"for more information", "for further information",
}

// leadingGreetings are stripped from non-first messages, longest first so
// "buenas noches" wins over "buenas".
var leadingGreetings = []string{
	"buenas noches", "buenas tardes", "buenos dias",
	"good afternoon", "good morning", "good evening",
	"buenas", "hello", "hola", "hey", "hi",
}

// FirstParagraph keeps only the text before the first blank line.
func FirstParagraph(text string, _ Input) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, sep := range []string{"\n\n", "\n \n", "\n\t\n"} {
		if idx := strings.Index(text, sep); idx >= 0 {
			text = text[:idx]
		}
	}
	return strings.TrimSpace(text)
}

// StripContactLine removes sentences carrying the contact marker unless
// the user message expresses purchase intent, then trims stray trailing
// punctuation left by the removal.
func StripContactLine(text string, in Input) string {
	if in.PurchaseIntent {
		return text
	}

	sentences := splitSentences(text)
	kept := sentences[:0]
	removed := false
	for _, s := range sentences {
		if textutil.ContainsAny(textutil.Normalize(s), contactMarkers) {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	if !removed {
		return text
	}

	out := strings.TrimSpace(strings.Join(kept, " "))
	return strings.TrimRight(out, " ,;:")
}

// StripLeadingGreeting removes a leading localized greeting phrase from
// non-first messages. Matching folds case and accents but the cut happens
// on the original text.
func StripLeadingGreeting(text string, in Input) string {
	if in.FirstMessage {
		return text
	}

	runes := []rune(text)
	start := 0
	for start < len(runes) && (unicode.IsSpace(runes[start]) || runes[start] == '¡' || runes[start] == '¿') {
		start++
	}
	rest := runes[start:]
	folded := foldRunes(rest)

	for _, phrase := range leadingGreetings {
		if !strings.HasPrefix(folded, phrase) {
			continue
		}
		cut := len([]rune(phrase))
		// Word boundary: "holanda" must not lose "hola".
		if cut < len(rest) && unicode.IsLetter(rest[cut]) {
			continue
		}
		return string(rest[cut:])
	}
	return text
}

// TrimLeadingPunct cleans commas, periods, and exclamation marks left at
// the start after greeting removal.
func TrimLeadingPunct(text string, _ Input) string {
	return strings.TrimLeft(text, " \t,.!¡¿?:;-")
}

// Capitalize uppercases the first character of the remaining text.
func Capitalize(text string, _ Input) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return text
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// EnsureTerminalPunct appends a period when the text ends in neither
// sentence punctuation nor an emoji-range character.
func EnsureTerminalPunct(text string, _ Input) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return text
	}
	last := runes[len(runes)-1]
	switch last {
	case '.', '!', '?', '…':
		return text
	}
	if isEmoji(last) {
		return text
	}
	return text + "."
}

// splitSentences breaks text into sentences, each keeping its terminator.
// A terminator only ends a sentence when followed by whitespace or the end
// of the text, so dots inside emails and URLs do not split.
func splitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	var current strings.Builder
	for i, r := range runes {
		current.WriteRune(r)
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// foldRunes lowercases and de-accents rune by rune, preserving count so
// fold offsets map back to the original runes.
func foldRunes(rs []rune) string {
	var b strings.Builder
	b.Grow(len(rs))
	for _, r := range rs {
		stripped := []rune(textutil.StripAccents(string(r)))
		if len(stripped) == 1 {
			r = stripped[0]
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF: // pictographs, transport, supplemental
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols and dingbats
		return true
	case r >= 0x1F000 && r <= 0x1F2FF: // mahjong, dominoes, enclosed
		return true
	default:
		return false
	}
}
