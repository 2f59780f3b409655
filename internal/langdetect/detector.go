package langdetect

import (
	"github.com/abadojack/whatlanggo"
)

// Strategy is one step of the detection chain. It returns ok=false when it
// cannot decide, which hands the text to the next strategy.
type Strategy interface {
	Detect(text string) (lang Lang, ok bool)
	Name() string
}

// StrategyFunc adapts a plain function to the Strategy interface.
type StrategyFunc struct {
	Label string
	Fn    func(text string) (Lang, bool)
}

func (s StrategyFunc) Detect(text string) (Lang, bool) { return s.Fn(text) }
func (s StrategyFunc) Name() string                   { return s.Label }

// Detector runs its strategies in order and stops at the first one that
// decides.
type Detector struct {
	strategies []Strategy
}

// NewDetector creates a detector with a custom strategy chain.
func NewDetector(strategies ...Strategy) *Detector {
	return &Detector{strategies: strategies}
}

// Default returns the standard chain: script ranges, the statistical
// identifier, then the ASCII heuristic.
func Default() *Detector {
	return NewDetector(ScriptStrategy{}, StatisticalStrategy{}, ASCIIStrategy{})
}

// Detect returns vi or ja for text. If no strategy decides (only possible
// with a custom chain lacking a catch-all) it returns Vietnamese.
func (d *Detector) Detect(text string) Lang {
	lang, _ := d.DetectWith(text)
	return lang
}

// DetectWith is Detect but also reports which strategy made the decision.
// The name is empty when the chain fell through.
func (d *Detector) DetectWith(text string) (Lang, string) {
	for _, s := range d.strategies {
		if lang, ok := s.Detect(text); ok {
			return lang, s.Name()
		}
	}
	return Vietnamese, ""
}

// Detect runs the default chain.
func Detect(text string) Lang {
	return defaultDetector.Detect(text)
}

var defaultDetector = Default()

// ScriptStrategy returns Japanese as soon as a kana or CJK ideograph shows up.
// Vietnamese is written in Latin script only, so one such rune is enough.
type ScriptStrategy struct{}

func (ScriptStrategy) Name() string { return "script" }

func (ScriptStrategy) Detect(text string) (Lang, bool) {
	for _, r := range text {
		if isJapaneseRune(r) {
			return Japanese, true
		}
	}
	return "", false
}

// isJapaneseRune covers hiragana and katakana (U+3040..U+30FF) and the CJK
// unified ideographs block (U+4E00..U+9FFF).
func isJapaneseRune(r rune) bool {
	return (r >= 0x3040 && r <= 0x30FF) || (r >= 0x4E00 && r <= 0x9FFF)
}

// StatisticalStrategy asks whatlanggo for the language. Only Japanese and
// Vietnamese answers count; anything else is a miss.
type StatisticalStrategy struct{}

func (StatisticalStrategy) Name() string { return "statistical" }

func (StatisticalStrategy) Detect(text string) (Lang, bool) {
	info := whatlanggo.Detect(text)
	switch info.Lang {
	case whatlanggo.Jpn:
		return Japanese, true
	case whatlanggo.Vie:
		return Vietnamese, true
	}
	return "", false
}

// ASCIIStrategy always decides: pure ASCII text is taken as Vietnamese
// written without diacritics, anything else as Japanese.
type ASCIIStrategy struct{}

func (ASCIIStrategy) Name() string { return "ascii" }

func (ASCIIStrategy) Detect(text string) (Lang, bool) {
	for _, r := range text {
		if r >= 128 {
			return Japanese, true
		}
	}
	return Vietnamese, true
}
