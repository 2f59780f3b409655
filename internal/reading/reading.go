// Package reading annotates Japanese text with its pronunciation so that
// Vietnamese speakers can read a translation aloud. Readings come from the
// kagome morphological analyzer with the IPA dictionary.
package reading

import (
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Token is one analyzed unit of text.
type Token struct {
	Surface string // as written, e.g. "東京"
	Reading string // katakana, e.g. "トウキョウ"; empty when unknown
}

// Annotator produces readings for Japanese text.
type Annotator struct {
	t *tokenizer.Tokenizer

	// Hiragana renders readings in hiragana instead of katakana.
	Hiragana bool
}

// NewAnnotator loads the dictionary and returns an annotator.
func NewAnnotator() (*Annotator, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Annotator{t: t}, nil
}

// Tokens splits text into tokens with readings.
func (a *Annotator) Tokens(text string) []Token {
	var result []Token
	for _, token := range a.t.Tokenize(text) {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		if strings.TrimSpace(token.Surface) == "" {
			continue
		}

		// IPA features: 7 is the reading
		reading := ""
		features := token.Features()
		if len(features) > 7 && features[7] != "*" {
			reading = features[7]
		}

		result = append(result, Token{Surface: token.Surface, Reading: reading})
	}
	return result
}

// Reading returns the pronunciation of text as a single string. Tokens the
// dictionary has no reading for keep their surface form.
func (a *Annotator) Reading(text string) string {
	var sb strings.Builder
	for _, tok := range a.Tokens(text) {
		r := tok.Reading
		if r == "" {
			r = tok.Surface
		}
		if a.Hiragana {
			r = ToHiragana(r)
		}
		sb.WriteString(r)
	}
	return sb.String()
}

// ToHiragana maps katakana to the matching hiragana, leaving everything else.
func ToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'ァ' && r <= 'ヶ' {
			return r - 0x60
		}
		return r
	}, s)
}
