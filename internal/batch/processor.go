package batch

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"codeberg.org/snonux/vjtalk/internal/langdetect"
)

// Entry is one line of a batch file.
type Entry struct {
	Line int             // 1-based line number in the file
	Text string          // text to translate
	Lang langdetect.Lang // source language; Auto unless the line had a prefix
	// Translation is set when the line already carries one ("text = translation").
	Translation string
}

// NeedsTranslation reports whether the entry still has to be translated.
func (e Entry) NeedsTranslation() bool {
	return e.Translation == ""
}

// ReadBatchFile reads entries from a file.
// Supports formats:
// - Plain text: "Xin chào" (source language from the command line)
// - With a language prefix: "vi: Xin chào" or "ja: こんにちは"
// - With translation: "Cảm ơn = ありがとう" (kept as is, no request)
// Blank lines and lines starting with '#' are ignored.
func ReadBatchFile(filename string) ([]Entry, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		entry, ok := ParseLine(scanner.Text())
		if !ok {
			continue
		}
		entry.Line = lineNo
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	return entries, nil
}

// ParseLine parses a single batch line. It returns false for lines that
// hold nothing to translate.
func ParseLine(line string) (Entry, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Entry{}, false
	}

	entry := Entry{Lang: langdetect.Auto}
	if prefix, rest, found := strings.Cut(line, ":"); found {
		if lang := langdetect.Lang(strings.ToLower(strings.TrimSpace(prefix))); lang.IsConcrete() {
			entry.Lang = lang
			line = strings.TrimSpace(rest)
		}
	}

	if text, translation, found := strings.Cut(line, "="); found {
		text = strings.TrimSpace(text)
		translation = strings.TrimSpace(translation)
		if text == "" {
			// Nothing to pair the translation with
			return Entry{}, false
		}
		entry.Text = text
		entry.Translation = translation
		return entry, true
	}

	if line == "" {
		return Entry{}, false
	}
	entry.Text = line
	return entry, true
}
