package audio

import (
	"context"
	"errors"
	"strings"

	"codeberg.org/snonux/vjtalk/internal/langdetect"
)

const (
	FormatMP3 = "mp3"
	FormatWAV = "wav"

	MIMEMP3 = "audio/mp3"
	MIMEWAV = "audio/wav"
)

var (
	// ErrMissingAPIKey is returned by remote calls when no key is configured.
	ErrMissingAPIKey = errors.New("OpenAI API key not configured")
	// ErrEmptyAudio is returned when there is no audio to transcribe.
	ErrEmptyAudio = errors.New("audio is empty")
)

// Voices lists the TTS voices accepted by the speech endpoint.
var Voices = []string{"alloy", "ash", "ballad", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer", "verse", "aria"}

// Formats lists the output encodings a caller may ask for.
var Formats = []string{FormatMP3, FormatWAV}

// Clip is synthesized audio and its media type.
type Clip struct {
	Data   []byte
	MIME   string
	Format string
}

// Empty reports whether the clip holds no audio.
func (c Clip) Empty() bool {
	return len(c.Data) == 0
}

// MIMEFor returns the media type of an output format. Unknown formats are
// treated as mp3, the encoding the speech service produces.
func MIMEFor(format string) string {
	if strings.EqualFold(format, FormatWAV) {
		return MIMEWAV
	}
	return MIMEMP3
}

// Synthesizer turns text into speech.
type Synthesizer interface {
	// Synthesize returns audio for text. Empty text yields an empty mp3 clip
	// without a remote call.
	Synthesize(ctx context.Context, text, voice, format string) (Clip, error)

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Transcriber turns recorded speech into text.
type Transcriber interface {
	// Transcribe returns the trimmed transcript. hint is passed to the
	// service only when it is vi or ja.
	Transcribe(ctx context.Context, audio []byte, hint langdetect.Lang) (string, error)
}

// Config holds configuration for the OpenAI speech provider
type Config struct {
	OpenAIKey     string
	OpenAIBaseURL string

	// Text-to-speech
	TTSModel    string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	Voice       string  // see Voices
	Speed       float64 // 0.25 to 4.0; 0 leaves the service default
	Instruction string  // Voice instructions for gpt-4o-mini-tts

	// Speech-to-text
	STTModel string

	OutputFormat string // "mp3" or "wav"

	// Caching of synthesized mp3 audio on disk
	EnableCache bool
	CacheDir    string

	// TempDir holds temporary audio files; empty means os.TempDir().
	TempDir string
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		TTSModel:     "gpt-4o-mini-tts",
		Voice:        "alloy",
		STTModel:     "gpt-4o-mini-transcribe",
		OutputFormat: FormatMP3,
	}
}

// supportsInstructions reports whether model accepts voice instructions.
func supportsInstructions(model string) bool {
	return model == "gpt-4o-mini-tts" || model == "gpt-4o-mini-audio-preview"
}
