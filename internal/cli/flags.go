package cli

import (
	"time"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	Verbose    bool
	Timeout    time.Duration
	BatchFile  string
	OutputFile string
	NoAutoPlay bool

	// Language selection
	Source string
	Target string

	// Translation flags
	Provider    string
	Model       string
	Temperature float32

	// Speech flags
	TTSModel    string
	STTModel    string
	Voice       string
	Format      string
	Speed       float64
	Instruction string
	EnableCache bool
	ClearCache  bool
	CacheDir    string

	// Display flags
	Reading  bool
	Hiragana bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Timeout:     60 * time.Second,
		Source:      "auto",
		Target:      "ja",
		Provider:    "openai",
		Model:       "gpt-4o-mini",
		Temperature: 0.2,
		TTSModel:    "gpt-4o-mini-tts",
		STTModel:    "gpt-4o-mini-transcribe",
		Voice:       "alloy",
		Format:      "mp3",
	}
}
