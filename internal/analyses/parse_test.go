package analyses

import (
	"errors"
	"testing"
)

func TestDecodeModelOutputDirectJSON(t *testing.T) {
	decoded, err := DecodeModelOutput(`{"tone": "optimistic"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded["tone"] != "optimistic" {
		t.Fatalf("tone = %v, want optimistic", decoded["tone"])
	}
}

func TestDecodeModelOutputStripsFences(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"json fence", "```json\n{\"tone\": \"cautious\"}\n```"},
		{"bare fence", "```\n{\"tone\": \"cautious\"}\n```"},
		{"fence with trailing newline", "```json\n{\"tone\": \"cautious\"}\n```\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decoded, err := DecodeModelOutput(tc.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if decoded["tone"] != "cautious" {
				t.Fatalf("tone = %v, want cautious", decoded["tone"])
			}
		})
	}
}

func TestDecodeModelOutputRecoversEmbeddedObject(t *testing.T) {
	raw := "Here is the analysis you asked for:\n{\"confidence\": \"high\"}\nLet me know if you need more."
	decoded, err := DecodeModelOutput(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded["confidence"] != "high" {
		t.Fatalf("confidence = %v, want high", decoded["confidence"])
	}
}

func TestDecodeModelOutputEmpty(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		if _, err := DecodeModelOutput(raw); !errors.Is(err, ErrEmptyOutput) {
			t.Fatalf("DecodeModelOutput(%q) error = %v, want ErrEmptyOutput", raw, err)
		}
	}
}

func TestDecodeModelOutputInvalid(t *testing.T) {
	for _, raw := range []string{"not json at all", "{broken", "[1,2,3]"} {
		if _, err := DecodeModelOutput(raw); !errors.Is(err, ErrInvalidModelOutput) {
			t.Fatalf("DecodeModelOutput(%q) error = %v, want ErrInvalidModelOutput", raw, err)
		}
	}
}
