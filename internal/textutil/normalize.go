// Package textutil provides text normalization utilities for message
// classification. Normalization is lossy and used only for matching; the
// original message text is preserved for generation.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// accentStripper decomposes characters and removes combining marks,
// turning "cuánto" into "cuanto" and "qué" into "que".
var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// noiseRunes are punctuation characters that carry no classification
// signal in short chat messages.
var noiseRunes = map[rune]bool{
	'¿': true,
	'?': true,
	'¡': true,
	'!': true,
	'.': true,
	',': true,
	';': true,
}

// StripAccents removes diacritical marks from s.
// Returns s unchanged if the transform fails.
func StripAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize prepares raw message text for keyword matching: accents are
// stripped, the text is lowercased and trimmed, and punctuation noise is
// removed. Interior whitespace runs collapse to a single space.
func Normalize(s string) string {
	s = StripAccents(s)
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if noiseRunes[r] {
			continue
		}
		b.WriteRune(r)
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// ContainsAny reports whether s contains any of the given phrases as a
// substring. Empty phrases never match.
func ContainsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if p == "" {
			continue
		}
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
