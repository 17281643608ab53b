// Package chunk splits oversized replies into ordered bounded segments
// and frames them with localized header and footer lines.
package chunk

// minLineCut is the earliest position where a newline is preferred over a
// hard cut. Below it a line break is too close to the start to be worth
// splitting on.
const minLineCut = 100

// Split breaks text into ordered segments of at most maxSize runes each.
// When a segment would cut mid-line and a newline exists past the
// minimum-cut mark, the segment ends at the last such newline instead.
// Concatenating the segments reproduces the input exactly.
func Split(text string, maxSize int) []string {
	if maxSize <= 0 || len([]rune(text)) <= maxSize {
		return []string{text}
	}

	var chunks []string
	remaining := []rune(text)
	for len(remaining) > maxSize {
		cut := maxSize
		if idx := lastNewline(remaining[:maxSize]); idx >= minLineCut {
			cut = idx + 1 // keep the newline with the leading segment
		}
		chunks = append(chunks, string(remaining[:cut]))
		remaining = remaining[cut:]
	}
	if len(remaining) > 0 {
		chunks = append(chunks, string(remaining))
	}
	return chunks
}

// Frame prefixes the first chunk with header and suffixes the last chunk
// with footer. Single-chunk replies get both.
func Frame(chunks []string, header, footer string) []string {
	if len(chunks) == 0 {
		return chunks
	}

	framed := make([]string, len(chunks))
	copy(framed, chunks)
	if header != "" {
		framed[0] = header + "\n\n" + framed[0]
	}
	if footer != "" {
		framed[len(framed)-1] = framed[len(framed)-1] + "\n\n" + footer
	}
	return framed
}

func lastNewline(rs []rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == '\n' {
			return i
		}
	}
	return -1
}
