package extract

import (
	"strings"
	"testing"
	"unicode"
)

func TestSignalLength(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   \t\n  ", 0},
		{"abc", 3},
		{"a b c", 3},
		{"Revenue grew 12%\nMargins held.\t", 27},
		{"  unicode space  ", 7},
	}
	for _, tc := range cases {
		if got := SignalLength(tc.in); got != tc.want {
			t.Fatalf("SignalLength(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestSignalLengthNeverExceedsInput(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"   leading and trailing   ",
		strings.Repeat("x \n", 500),
		"speaker: we expect capex of $2.4B in FY26",
	}
	for _, in := range inputs {
		got := SignalLength(in)
		runes := []rune(in)
		if got > len(runes) {
			t.Fatalf("SignalLength(%q) = %d exceeds rune length %d", in, got, len(runes))
		}
		whitespace := 0
		for _, r := range runes {
			if unicode.IsSpace(r) {
				whitespace++
			}
		}
		if got != len(runes)-whitespace {
			t.Fatalf("SignalLength(%q) = %d, want %d", in, got, len(runes)-whitespace)
		}
	}
}

func TestWordCount(t *testing.T) {
	if got := WordCount(""); got != 0 {
		t.Fatalf("expected 0 words for empty text, got %d", got)
	}
	if got := WordCount("revenue grew   twelve percent"); got != 4 {
		t.Fatalf("expected 4 words, got %d", got)
	}
}
