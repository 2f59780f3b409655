package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"codeberg.org/snonux/vjtalk/internal/audio"
	"codeberg.org/snonux/vjtalk/internal/cli"
	"codeberg.org/snonux/vjtalk/internal/langdetect"
	"codeberg.org/snonux/vjtalk/internal/reading"
	"codeberg.org/snonux/vjtalk/internal/session"
	"codeberg.org/snonux/vjtalk/internal/translation"
)

// ErrEmptyInput is returned when there is no text to translate.
var ErrEmptyInput = errors.New("input is empty")

// Annotator adds a pronunciation guide to Japanese text.
type Annotator interface {
	Reading(text string) string
}

// Options tune speech output and call deadlines.
type Options struct {
	Voice  string
	Format string
	// Timeout bounds each remote call; zero means no deadline.
	Timeout time.Duration
}

// Outcome is everything one interaction produced.
type Outcome struct {
	SourceText  string
	Source      langdetect.Lang
	Target      langdetect.Lang
	Translation translation.Result
	Clip        audio.Clip
	// SpeechErr is set when synthesis failed; the interaction still succeeds.
	SpeechErr error
	// Reading is the pronunciation of a Japanese translation, when enabled.
	Reading string
	// Turn is set in conversation mode.
	Turn *session.Turn
}

// Display returns the translation or its in-band error message.
func (o Outcome) Display() string {
	return o.Translation.Display()
}

// Failed reports whether the translation failed.
func (o Outcome) Failed() bool {
	return o.Translation.Failed()
}

// Processor handles the interaction logic
type Processor struct {
	router           *translation.Router
	transcriber      audio.Transcriber
	synthesizer      audio.Synthesizer
	annotator        Annotator
	translationCache *translation.TranslationCache
	logger           *zap.SugaredLogger

	mu   sync.Mutex
	opts Options
}

// New creates a processor from its collaborators. transcriber and
// synthesizer may be nil, which disables the corresponding step.
func New(router *translation.Router, transcriber audio.Transcriber, synthesizer audio.Synthesizer, opts Options, logger *zap.SugaredLogger) *Processor {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if router == nil {
		router = translation.NewRouter(nil, nil, logger)
	}
	return &Processor{
		router:           router,
		transcriber:      transcriber,
		synthesizer:      synthesizer,
		translationCache: translation.NewTranslationCache(),
		logger:           logger,
		opts:             opts,
	}
}

// NewProcessor wires the remote services configured by flags, viper and
// creds. A missing credential does not fail here; each call then fails.
func NewProcessor(flags *cli.Flags, creds *cli.Credentials, logger *zap.SugaredLogger) (*Processor, error) {
	if creds == nil {
		creds = &cli.Credentials{}
	}

	backend, err := translation.NewBackend(cli.TranslationConfig(creds), logger)
	if err != nil {
		return nil, err
	}

	audioConfig := cli.AudioConfig(creds)
	provider, err := audio.NewOpenAIProvider(audioConfig, logger)
	if err != nil {
		return nil, err
	}

	timeout := flags.Timeout
	if viper.IsSet("timeout") {
		timeout = viper.GetDuration("timeout")
	}

	p := New(
		translation.NewRouter(backend, nil, logger),
		provider,
		provider,
		Options{Voice: audioConfig.Voice, Format: audioConfig.OutputFormat, Timeout: timeout},
		logger,
	)

	if flags.ClearCache || viper.GetBool("audio.clear_cache") {
		if err := provider.ClearCache(); err != nil {
			return nil, fmt.Errorf("failed to clear speech cache: %w", err)
		}
		p.logger.Infow("speech cache cleared", "dir", audioConfig.CacheDir)
	} else if files, size, err := provider.GetCacheStats(); err == nil && files > 0 {
		p.logger.Debugw("speech cache", "dir", audioConfig.CacheDir, "files", files, "bytes", size)
	}

	if flags.Reading || viper.GetBool("display.reading") {
		annotator, err := reading.NewAnnotator()
		if err != nil {
			return nil, fmt.Errorf("failed to load reading dictionary: %w", err)
		}
		annotator.Hiragana = flags.Hiragana || viper.GetBool("display.hiragana")
		p.SetAnnotator(annotator)
	}

	return p, nil
}

// SetAnnotator enables reading annotation of Japanese output.
func (p *Processor) SetAnnotator(a Annotator) {
	p.annotator = a
}

// SetSpeech changes the voice and audio format used from the next interaction on.
func (p *Processor) SetSpeech(voice, format string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.opts.Voice = voice
	p.opts.Format = format
}

// Options returns the current options.
func (p *Processor) Options() Options {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opts
}

// TranslateText translates typed text and speaks the translation.
func (p *Processor) TranslateText(ctx context.Context, text string, src, dst langdetect.Lang) (Outcome, error) {
	if strings.TrimSpace(text) == "" {
		return Outcome{Source: src, Target: dst}, ErrEmptyInput
	}

	res := p.translate(ctx, text, src, dst)
	if errors.Is(res.Err, langdetect.ErrUnsupportedLanguage) {
		return Outcome{SourceText: text, Source: src, Target: dst, Translation: res}, res.Err
	}
	return p.finish(ctx, res), nil
}

// VoiceInput transcribes a recording, translates the transcript and speaks
// the translation. src is passed to the transcriber as a hint unless it is auto.
func (p *Processor) VoiceInput(ctx context.Context, recording []byte, src, dst langdetect.Lang) (Outcome, error) {
	transcript, err := p.transcribe(ctx, recording, src)
	if err != nil {
		return Outcome{Source: src, Target: dst}, err
	}
	if transcript == "" {
		return Outcome{Source: src, Target: dst}, ErrEmptyInput
	}

	res := p.translate(ctx, transcript, src, dst)
	if errors.Is(res.Err, langdetect.ErrUnsupportedLanguage) {
		return Outcome{SourceText: transcript, Source: src, Target: dst, Translation: res}, res.Err
	}
	return p.finish(ctx, res), nil
}

// ConversationTurn handles one utterance of a two-person conversation: the
// spoken language is detected from the transcript and translated into the
// other one. The turn is appended to sess before speech is synthesized.
func (p *Processor) ConversationTurn(ctx context.Context, sess *session.Session, recording []byte) (Outcome, error) {
	if sess == nil {
		return Outcome{}, errors.New("no conversation session")
	}

	transcript, err := p.transcribe(ctx, recording, langdetect.Auto)
	if err != nil {
		return Outcome{}, err
	}
	if transcript == "" {
		return Outcome{}, ErrEmptyInput
	}

	detected := p.router.Detect(transcript)
	target := detected.Opposite()

	res := p.translate(ctx, transcript, detected, target)
	turn := sess.Append(transcript, detected, res.Display(), target, res.Failed())
	p.logger.Debugw("conversation turn", "session", sess.ID, "index", turn.Index, "speaker", turn.Speaker, "src", detected, "dst", target)

	out := p.finish(ctx, res)
	out.Turn = &turn
	return out, nil
}

// Speak synthesizes text as is, without translating it.
func (p *Processor) Speak(ctx context.Context, text string) (audio.Clip, error) {
	if p.synthesizer == nil {
		return audio.Clip{}, errors.New("no speech synthesizer configured")
	}
	opts := p.Options()
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return p.synthesizer.Synthesize(ctx, text, opts.Voice, opts.Format)
}

func (p *Processor) transcribe(ctx context.Context, recording []byte, hint langdetect.Lang) (string, error) {
	if err := audio.ValidateAudio(recording); err != nil {
		return "", err
	}
	if p.transcriber == nil {
		return "", errors.New("no transcriber configured")
	}

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	text, err := p.transcriber.Transcribe(ctx, recording, hint)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func (p *Processor) translate(ctx context.Context, text string, src, dst langdetect.Lang) translation.Result {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return p.router.Translate(ctx, text, src, dst)
}

// finish synthesizes and annotates a translation result. Nothing is spoken
// when the translation failed.
func (p *Processor) finish(ctx context.Context, res translation.Result) Outcome {
	out := Outcome{
		SourceText:  res.Source,
		Source:      res.From,
		Target:      res.To,
		Translation: res,
	}
	if res.Failed() {
		return out
	}

	if p.annotator != nil && res.To == langdetect.Japanese {
		out.Reading = p.annotator.Reading(res.Text)
	}

	if p.synthesizer != nil {
		clip, err := p.Speak(ctx, res.Text)
		if err != nil {
			p.logger.Warnw("speech synthesis failed", "provider", p.synthesizer.Name(), "error", err)
			out.SpeechErr = err
		} else {
			out.Clip = clip
		}
	}
	return out
}

func (p *Processor) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if timeout := p.Options().Timeout; timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}
