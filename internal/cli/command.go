package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/vjtalk/internal"
)

// RunFunc runs one command.
type RunFunc func(cmd *cobra.Command, args []string) error

// Handlers are the actions behind the commands. A nil handler leaves the
// command without a run function.
type Handlers struct {
	GUI        RunFunc
	Translate  RunFunc
	Voice      RunFunc
	Converse   RunFunc
	Speak      RunFunc
	Detect     RunFunc
	ListModels RunFunc
}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags, h Handlers) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vjtalk",
		Short: "Vietnamese ⇄ Japanese text and speech translator",
		Long: `vjtalk translates text and speech between Vietnamese and Japanese.

Translation, speech recognition and speech synthesis are done by a remote
language model API. Without a subcommand the desktop window opens.

Examples:
  vjtalk                                   # Launch interactive GUI (default)
  vjtalk translate "Xin chào"              # Translate text, source detected
  vjtalk translate --to vi 今日は暑いですね  # Translate Japanese to Vietnamese
  vjtalk translate --batch phrases.txt     # Translate a file line by line
  vjtalk voice recording.wav --from vi     # Transcribe, translate and speak
  vjtalk converse a.wav b.wav c.wav        # Alternating conversation turns`,
		Args:          cobra.NoArgs,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          h.GUI,
	}

	setupFlags(rootCmd, flags)

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "translate [text...]",
			Short: "Translate text",
			Long: `Translate text given as arguments, read from stdin when no
arguments are given, or taken line by line from a batch file.`,
			RunE: h.Translate,
		},
		&cobra.Command{
			Use:   "voice <audio-file>",
			Short: "Transcribe a recording, translate it and speak the result",
			Args:  cobra.ExactArgs(1),
			RunE:  h.Voice,
		},
		&cobra.Command{
			Use:   "converse <audio-file>...",
			Short: "Run conversation turns, one per recording, alternating speakers",
			Args:  cobra.MinimumNArgs(1),
			RunE:  h.Converse,
		},
		&cobra.Command{
			Use:   "speak [text...]",
			Short: "Synthesize speech for text without translating it",
			Args:  cobra.MinimumNArgs(1),
			RunE:  h.Speak,
		},
		&cobra.Command{
			Use:   "detect [text...]",
			Short: "Print the detected language of text",
			Long: `Print vi or ja for text given as arguments, or read from stdin
when no arguments are given. No remote service is used.`,
			RunE: h.Detect,
		},
		&cobra.Command{
			Use:   "list-models",
			Short: "List available OpenAI models for the current API key",
			Args:  cobra.NoArgs,
			RunE:  h.ListModels,
		},
	)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	pf := cmd.PersistentFlags()

	// Global flags
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.vjtalk.yaml)")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")
	pf.DurationVar(&flags.Timeout, "timeout", flags.Timeout, "Deadline for each remote call")

	// Language flags
	pf.StringVar(&flags.Source, "from", flags.Source, "Source language: auto, vi or ja")
	pf.StringVar(&flags.Target, "to", flags.Target, "Target language: ja or vi")

	// Translation flags
	pf.StringVar(&flags.Provider, "provider", flags.Provider, "Translation provider: "+strings.Join([]string{"openai", "gemini", "yandex"}, ", "))
	pf.StringVar(&flags.Model, "model", flags.Model, "Translation model (provider default when empty)")
	pf.Float32Var(&flags.Temperature, "temperature", flags.Temperature, "Sampling temperature for translation")

	// Speech flags
	pf.StringVar(&flags.TTSModel, "tts-model", flags.TTSModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	pf.StringVar(&flags.STTModel, "stt-model", flags.STTModel, "OpenAI transcription model")
	pf.StringVar(&flags.Voice, "voice", flags.Voice, "OpenAI voice: alloy, ash, ballad, coral, echo, fable, onyx, nova, sage, shimmer, verse, aria")
	pf.StringVarP(&flags.Format, "format", "f", flags.Format, "Audio format (mp3 or wav)")
	pf.Float64Var(&flags.Speed, "speed", 0, "Speech speed (0.25 to 4.0, 0 for the service default)")
	pf.StringVar(&flags.Instruction, "instruction", "", "Voice instructions for gpt-4o-mini-tts (e.g., 'speak slowly and clearly')")
	pf.BoolVar(&flags.EnableCache, "cache", false, "Cache synthesized speech on disk")
	pf.BoolVar(&flags.ClearCache, "clear-cache", false, "Remove cached speech before running")
	pf.StringVar(&flags.CacheDir, "cache-dir", "", "Directory for cached speech (default is the user cache dir)")

	// Output flags
	pf.StringVarP(&flags.OutputFile, "output", "o", "", "Write synthesized audio to this file")
	pf.BoolVar(&flags.NoAutoPlay, "no-auto-play", false, "Disable automatic audio playback")
	pf.BoolVar(&flags.Reading, "reading", false, "Show the reading of Japanese output")
	pf.BoolVar(&flags.Hiragana, "hiragana", false, "Show readings in hiragana instead of katakana")
	pf.StringVar(&flags.BatchFile, "batch", "", "Translate lines from file (one phrase per line)")

	// Bind flags to viper
	bindFlagsToViper(pf)
}

// viperKeys maps config keys to the flags that override them.
var viperKeys = map[string]string{
	"timeout":                 "timeout",
	"language.source":         "from",
	"language.target":         "to",
	"translation.provider":    "provider",
	"translation.model":       "model",
	"translation.temperature": "temperature",
	"audio.tts_model":         "tts-model",
	"audio.stt_model":         "stt-model",
	"audio.voice":             "voice",
	"audio.format":            "format",
	"audio.speed":             "speed",
	"audio.instruction":       "instruction",
	"audio.enable_cache":      "cache",
	"audio.clear_cache":       "clear-cache",
	"audio.cache_dir":         "cache-dir",
	"display.reading":         "reading",
	"display.hiragana":        "hiragana",
	"display.no_auto_play":    "no-auto-play",
}

func bindFlagsToViper(fs *pflag.FlagSet) {
	for key, name := range viperKeys {
		if f := fs.Lookup(name); f != nil {
			viper.BindPFlag(key, f)
		}
	}
}
