package audio

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/vjtalk/internal/breaker"
	"codeberg.org/snonux/vjtalk/internal/langdetect"
)

// Transcribe writes the recording to a temporary file, submits it to the
// transcription endpoint and returns the trimmed text. The temporary file is
// removed on every path; a failed removal is ignored.
func (p *OpenAIProvider) Transcribe(ctx context.Context, audio []byte, hint langdetect.Lang) (string, error) {
	if err := ValidateAudio(audio); err != nil {
		return "", err
	}
	if p.config.OpenAIKey == "" {
		return "", ErrMissingAPIKey
	}

	tmp, err := os.CreateTemp(p.config.TempDir, "vjtalk-*."+SniffFormat(audio))
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(audio); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}

	req := openai.AudioRequest{
		Model:    p.config.STTModel,
		FilePath: tmpPath,
	}
	if hint.IsConcrete() {
		req.Language = string(hint)
	}

	p.logger.Debugw("requesting transcription", "model", p.config.STTModel, "hint", req.Language, "bytes", len(audio))

	resp, err := breaker.Do(p.sttBreaker, func() (openai.AudioResponse, error) {
		return p.client.CreateTranscription(ctx, req)
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI transcription error: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}
