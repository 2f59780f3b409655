package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/vjtalk/internal/langdetect"
)

// ErrorPrefix starts the message shown in place of a failed translation.
const ErrorPrefix = "Translation error: "

// FailedMessage is shown when the backend answered with empty content.
const FailedMessage = "Translation failed"

var (
	// ErrEmptyTranslation is set when the backend returned no text.
	ErrEmptyTranslation = errors.New("empty translation")
	// ErrMissingAPIKey is returned by backends that have no credential.
	ErrMissingAPIKey = errors.New("API key not configured")
	// ErrNoBackend is set when a translation needs a remote call but the
	// router has no backend.
	ErrNoBackend = errors.New("no translation backend configured")
)

// SystemPrompt instructs the model how to translate.
const SystemPrompt = "You are a professional translator. Translate the text concisely and naturally.\n" +
	"- Source language: 'vi'=Vietnamese, 'ja'=Japanese\n" +
	"- Target language: 'ja'=Japanese, 'vi'=Vietnamese\n" +
	"- Keep numbers and names exactly as written\n" +
	"- Output only the translation, without explanations or notes"

// UserMessage builds the tagged user message for one translation request.
func UserMessage(src, dst langdetect.Lang, text string) string {
	return fmt.Sprintf("[SRC=%s] [DST=%s]\n%s", src, dst, text)
}

// Result is the outcome of one translation.
type Result struct {
	Source string          // input text
	From   langdetect.Lang // resolved source language
	To     langdetect.Lang // target language
	Text   string          // translated text; empty on failure
	// Skipped is true when source and target matched and no request was made.
	Skipped bool
	Err     error
}

// Failed reports whether the translation did not produce text.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Display returns what the user sees: the translation, or the in-band error
// message the UI shows in its place.
func (r Result) Display() string {
	switch {
	case r.Err == nil:
		return r.Text
	case errors.Is(r.Err, ErrEmptyTranslation):
		return FailedMessage
	default:
		return ErrorPrefix + r.Err.Error()
	}
}

// Router decides the language pair and dispatches translation requests.
type Router struct {
	backend  Backend
	detector *langdetect.Detector
	logger   *zap.SugaredLogger
}

// NewRouter creates a router. A nil detector uses the default chain and a
// nil logger discards output.
func NewRouter(backend Backend, detector *langdetect.Detector, logger *zap.SugaredLogger) *Router {
	if detector == nil {
		detector = langdetect.Default()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Router{
		backend:  backend,
		detector: detector,
		logger:   logger,
	}
}

// ResolveSource turns an "auto" source into vi or ja. Concrete sources are
// returned as is.
func (r *Router) ResolveSource(text string, src langdetect.Lang) langdetect.Lang {
	if src != langdetect.Auto {
		return src
	}
	detected, by := r.detector.DetectWith(text)
	if !detected.IsConcrete() {
		detected = langdetect.Vietnamese
	}
	r.logger.Debugw("detected source language", "lang", detected, "strategy", by)
	return detected
}

// Detect runs the router's detector on text.
func (r *Router) Detect(text string) langdetect.Lang {
	return r.detector.Detect(text)
}

// Translate translates text from src to dst. src may be auto. It never
// returns a Go error; failures are carried in Result.Err.
func (r *Router) Translate(ctx context.Context, text string, src, dst langdetect.Lang) Result {
	res := Result{Source: text, From: src, To: dst}

	if src != langdetect.Auto && !src.IsConcrete() {
		res.Err = fmt.Errorf("%w: source %q", langdetect.ErrUnsupportedLanguage, src)
		return res
	}
	if !dst.IsConcrete() {
		res.Err = fmt.Errorf("%w: target %q", langdetect.ErrUnsupportedLanguage, dst)
		return res
	}

	res.From = r.ResolveSource(text, src)
	if res.From == dst {
		res.Text = text
		res.Skipped = true
		return res
	}

	if r.backend == nil {
		res.Err = ErrNoBackend
		return res
	}

	r.logger.Debugw("translating", "backend", r.backend.Name(), "src", res.From, "dst", dst, "chars", len(text))
	out, err := r.backend.Complete(ctx, SystemPrompt, UserMessage(res.From, dst, text))
	if err != nil {
		r.logger.Warnw("translation request failed", "backend", r.backend.Name(), "error", err)
		res.Err = err
		return res
	}

	out = strings.TrimSpace(out)
	if out == "" {
		res.Err = ErrEmptyTranslation
		return res
	}
	res.Text = out
	return res
}
