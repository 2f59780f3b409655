package gui

import (
	"fmt"
	"strings"

	"codeberg.org/snonux/vjtalk/internal/langdetect"
	"codeberg.org/snonux/vjtalk/internal/processor"
	"codeberg.org/snonux/vjtalk/internal/session"
)

// Mode is one of the three interaction modes offered by the window.
type Mode string

const (
	ModeText         Mode = "テキスト翻訳 / Dịch văn bản"
	ModeVoice        Mode = "音声入力 / Ghi âm"
	ModeConversation Mode = "会話モード / Hội thoại"
)

// Modes in the order shown by the mode radio.
var Modes = []Mode{ModeText, ModeVoice, ModeConversation}

// ModeLabels returns the radio labels.
func ModeLabels() []string {
	labels := make([]string, len(Modes))
	for i, m := range Modes {
		labels[i] = string(m)
	}
	return labels
}

// SourceChoices and TargetChoices feed the language selects.
var (
	SourceChoices = []string{string(langdetect.Auto), string(langdetect.Vietnamese), string(langdetect.Japanese)}
	TargetChoices = []string{string(langdetect.Japanese), string(langdetect.Vietnamese)}
)

// VoiceChoices are the voices offered in the window.
var VoiceChoices = []string{"alloy", "verse", "aria", "sage"}

// ExampleText is the text the input area starts with: a Vietnamese greeting
// when translating into Japanese, a Japanese sentence otherwise.
func ExampleText(dst langdetect.Lang) string {
	if dst == langdetect.Japanese {
		return "Xin chào, rất vui được gặp bạn."
	}
	return "今日はとても暑いですね。"
}

// TurnTitle labels one conversation turn in the history.
func TurnTitle(t session.Turn) string {
	return fmt.Sprintf("Turn %d · Speaker %s", t.Index, t.Speaker)
}

// TurnBody shows both sides of a turn.
func TurnBody(t session.Turn) string {
	return fmt.Sprintf("原文 (%s): %s\n翻訳 (%s): %s", t.SourceLang, t.SourceText, t.TargetLang, t.TargetText)
}

// ResultStatus summarizes an outcome for the status bar.
func ResultStatus(o processor.Outcome) string {
	var b strings.Builder
	switch {
	case o.Failed():
		b.WriteString("翻訳失敗 / Dịch thất bại")
	case o.Translation.Skipped:
		fmt.Fprintf(&b, "同じ言語 / Cùng ngôn ngữ (%s)", o.Target)
	default:
		fmt.Fprintf(&b, "完了 / Hoàn tất (%s → %s)", o.Source, o.Target)
	}
	if o.SpeechErr != nil {
		fmt.Fprintf(&b, "; no audio: %v", o.SpeechErr)
	}
	return b.String()
}

// RecordingExtensions are the file types accepted by the open dialog.
var RecordingExtensions = []string{".wav", ".mp3", ".m4a", ".webm", ".ogg", ".flac"}
