package sanitize

import (
	domerrors "github.com/atiendebot/atiendebot/internal/errors"
)

// minReplyLength is the shortest reply worth delivering; anything shorter
// after sanitization is dropped.
const minReplyLength = 3

// Chain returns the canonical ordered transform list. The order is part
// of the contract: capitalization must run after greeting and contact
// stripping, terminal punctuation after capitalization.
func Chain() []Step {
	return []Step{
		{Name: "first_paragraph", Fn: FirstParagraph},
		{Name: "strip_contact_line", Fn: StripContactLine},
		{Name: "strip_leading_greeting", Fn: StripLeadingGreeting},
		{Name: "trim_leading_punct", Fn: TrimLeadingPunct},
		{Name: "capitalize", Fn: Capitalize},
		{Name: "ensure_terminal_punct", Fn: EnsureTerminalPunct},
	}
}

// Run applies the canonical chain to raw generated text.
// Returns ErrReplyDropped when the result falls below the minimum length.
func Run(raw string, in Input) (string, error) {
	return RunSteps(Chain(), raw, in)
}

// RunSteps applies the given steps in order. Exposed separately so tests
// can demonstrate the chain's order sensitivity.
func RunSteps(steps []Step, raw string, in Input) (string, error) {
	text := raw
	for _, step := range steps {
		text = step.Fn(text, in)
	}
	if len([]rune(text)) < minReplyLength {
		return "", domerrors.ErrReplyDropped
	}
	return text, nil
}
