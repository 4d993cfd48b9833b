package extract

import (
	"strings"
	"unicode"
)

// SignalLength returns the count of non-whitespace runes in text. It is the
// universal proxy for whether extracted content is rich enough to analyze.
func SignalLength(text string) int {
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// WordCount returns the number of whitespace-separated words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
