package langdetect

import (
	"errors"
	"fmt"
	"strings"
)

// Lang is a two-letter language tag, or "auto" for a source that still has
// to be detected.
type Lang string

const (
	Vietnamese Lang = "vi"
	Japanese   Lang = "ja"
	Auto       Lang = "auto"
)

// ErrUnsupportedLanguage is returned for tags other than vi, ja and auto.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// SourceChoices lists the values accepted as a source language, in the
// order they are offered to the user.
var SourceChoices = []string{string(Auto), string(Vietnamese), string(Japanese)}

// TargetChoices lists the values accepted as a target language.
var TargetChoices = []string{string(Japanese), string(Vietnamese)}

// IsConcrete reports whether l names an actual language (vi or ja).
func (l Lang) IsConcrete() bool {
	return l == Vietnamese || l == Japanese
}

// Opposite returns the other supported language. Anything that is not
// Vietnamese maps to Vietnamese.
func (l Lang) Opposite() Lang {
	if l == Vietnamese {
		return Japanese
	}
	return Vietnamese
}

// Name returns a human readable name for the language.
func (l Lang) Name() string {
	switch l {
	case Vietnamese:
		return "Vietnamese"
	case Japanese:
		return "Japanese"
	case Auto:
		return "auto-detect"
	default:
		return string(l)
	}
}

func (l Lang) String() string {
	return string(l)
}

// ParseSource parses a source tag. auto is allowed.
func ParseSource(s string) (Lang, error) {
	l := Lang(strings.ToLower(strings.TrimSpace(s)))
	if l == Auto || l.IsConcrete() {
		return l, nil
	}
	return "", fmt.Errorf("%w: source %q (want auto, vi or ja)", ErrUnsupportedLanguage, s)
}

// ParseTarget parses a target tag. Only vi and ja are allowed.
func ParseTarget(s string) (Lang, error) {
	l := Lang(strings.ToLower(strings.TrimSpace(s)))
	if l.IsConcrete() {
		return l, nil
	}
	return "", fmt.Errorf("%w: target %q (want vi or ja)", ErrUnsupportedLanguage, s)
}
