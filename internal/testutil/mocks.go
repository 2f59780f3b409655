package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"codeberg.org/snonux/vjtalk/internal/audio"
	"codeberg.org/snonux/vjtalk/internal/langdetect"
)

// MockBackend mocks a translation backend. Replies are keyed by the text
// after the "[SRC=..] [DST=..]" header line of the user message.
type MockBackend struct {
	mu sync.Mutex

	Replies map[string]string
	Errors  map[string]error
	// Default is returned for texts without a reply; empty means "mock translation of <text>".
	Default string
	Calls   []string
}

// Complete mocks a chat completion
func (m *MockBackend) Complete(ctx context.Context, system, user string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, user)

	text := user
	if _, body, found := strings.Cut(user, "\n"); found {
		text = body
	}

	if err, ok := m.Errors[text]; ok {
		return "", err
	}
	if reply, ok := m.Replies[text]; ok {
		return reply, nil
	}
	if m.Default != "" {
		return m.Default, nil
	}
	return fmt.Sprintf("mock translation of %s", text), nil
}

// Name returns the backend name
func (m *MockBackend) Name() string { return "mock" }

// CallCount returns the number of completions requested
func (m *MockBackend) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// TranscribeCall records one transcription request
type TranscribeCall struct {
	Audio []byte
	Hint  langdetect.Lang
}

// MockTranscriber mocks speech-to-text. Successive calls return successive
// Transcripts; once exhausted the last one repeats.
type MockTranscriber struct {
	Transcripts []string
	Err         error
	Calls       []TranscribeCall
}

// Transcribe mocks a transcription
func (m *MockTranscriber) Transcribe(ctx context.Context, data []byte, hint langdetect.Lang) (string, error) {
	m.Calls = append(m.Calls, TranscribeCall{Audio: data, Hint: hint})
	if m.Err != nil {
		return "", m.Err
	}
	if err := audio.ValidateAudio(data); err != nil {
		return "", err
	}
	if len(m.Transcripts) == 0 {
		return "", nil
	}
	i := len(m.Calls) - 1
	if i >= len(m.Transcripts) {
		i = len(m.Transcripts) - 1
	}
	return strings.TrimSpace(m.Transcripts[i]), nil
}

// SynthesizeCall records one speech request
type SynthesizeCall struct {
	Text   string
	Voice  string
	Format string
}

// MockSynthesizer mocks text-to-speech.
type MockSynthesizer struct {
	Err   error
	Calls []SynthesizeCall
}

// Synthesize mocks speech synthesis; empty text yields an empty mp3 clip
func (m *MockSynthesizer) Synthesize(ctx context.Context, text, voice, format string) (audio.Clip, error) {
	if strings.TrimSpace(text) == "" {
		return audio.Clip{MIME: audio.MIMEMP3, Format: audio.FormatMP3}, nil
	}
	m.Calls = append(m.Calls, SynthesizeCall{Text: text, Voice: voice, Format: format})
	if m.Err != nil {
		return audio.Clip{}, m.Err
	}
	if format != audio.FormatWAV {
		format = audio.FormatMP3
	}
	return audio.Clip{
		Data:   []byte("mock audio of " + text),
		MIME:   audio.MIMEFor(format),
		Format: format,
	}, nil
}

// Name returns the provider name
func (m *MockSynthesizer) Name() string { return "mock" }

// IsAvailable always succeeds
func (m *MockSynthesizer) IsAvailable() error { return nil }

// TestDataGenerator generates test data
type TestDataGenerator struct{}

// GenerateVietnamesePhrase returns a Vietnamese greeting
func (g *TestDataGenerator) GenerateVietnamesePhrase() string {
	return "Xin chào, rất vui được gặp bạn."
}

// GenerateJapanesePhrase returns a Japanese sentence
func (g *TestDataGenerator) GenerateJapanesePhrase() string {
	return "今日はとても暑いですね。"
}

// GenerateAudioData generates mock audio data
func (g *TestDataGenerator) GenerateAudioData() []byte {
	// Simple mock WAV header
	return []byte("RIFF\x24\x00\x00\x00WAVEfmt ")
}
