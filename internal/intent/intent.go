// Package intent classifies normalized inbound messages into a fixed set
// of intents using ordered keyword matching, and detects the message
// language from marker keywords.
package intent

// Intent is the classified purpose of an inbound message.
type Intent string

// The fixed intent set. Classification priority is the order listed in
// classifierRules: specific topics first, then generic info, gratitude,
// greeting, with None as the fallback.
const (
	Price       Intent = "price"
	Includes    Intent = "includes"
	Duration    Intent = "duration"
	GenericInfo Intent = "generic_info"
	Gratitude   Intent = "gratitude"
	Greeting    Intent = "greeting"
	None        Intent = "none"
)

// String returns the intent label used in logs and metrics.
func (i Intent) String() string {
	return string(i)
}

// IsCanned reports whether the intent is answered from a canned template
// without invoking generation.
func (i Intent) IsCanned() bool {
	switch i {
	case Price, Includes, Duration, GenericInfo:
		return true
	default:
		return false
	}
}
