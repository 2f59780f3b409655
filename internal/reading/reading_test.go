package reading

import (
	"testing"
)

func newTestAnnotator(t *testing.T) *Annotator {
	t.Helper()
	a, err := NewAnnotator()
	if err != nil {
		t.Fatalf("NewAnnotator() error = %v", err)
	}
	return a
}

func TestReading(t *testing.T) {
	a := newTestAnnotator(t)

	tests := []struct {
		input string
		want  string
	}{
		{"東京", "トウキョウ"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := a.Reading(tt.input); got != tt.want {
			t.Errorf("Reading(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestReadingHiragana(t *testing.T) {
	a := newTestAnnotator(t)
	a.Hiragana = true

	if got := a.Reading("東京"); got != "とうきょう" {
		t.Errorf("Reading() = %q, want とうきょう", got)
	}
}

func TestTokensKeepSurface(t *testing.T) {
	a := newTestAnnotator(t)

	tokens := a.Tokens("東京")
	if len(tokens) != 1 {
		t.Fatalf("Tokens() returned %d tokens, want 1", len(tokens))
	}
	if tokens[0].Surface != "東京" || tokens[0].Reading != "トウキョウ" {
		t.Errorf("token = %+v", tokens[0])
	}
}

func TestToHiragana(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"カタカナ", "かたかな"},
		{"トウキョウ", "とうきょう"},
		{"ひらがな", "ひらがな"},
		{"ABC 123", "ABC 123"},
		{"ー", "ー"},
	}
	for _, tt := range tests {
		if got := ToHiragana(tt.input); got != tt.want {
			t.Errorf("ToHiragana(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
