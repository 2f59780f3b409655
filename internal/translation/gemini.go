package translation

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured for Gemini.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiBackend translates with Google's Gemini API.
type GeminiBackend struct {
	apiKey      string
	model       string
	temperature float32

	once    sync.Once
	client  *genai.Client
	initErr error
}

// NewGeminiBackend creates a Gemini backend. The client is created lazily on
// the first request.
func NewGeminiBackend(apiKey, model string, temperature float32) *GeminiBackend {
	if model == "" || model == DefaultOpenAIModel {
		model = DefaultGeminiModel
	}
	return &GeminiBackend{
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
	}
}

// Name returns the backend name.
func (b *GeminiBackend) Name() string { return ProviderGemini }

func (b *GeminiBackend) getClient(ctx context.Context) (*genai.Client, error) {
	b.once.Do(func() {
		b.client, b.initErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  b.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	return b.client, b.initErr
}

// Complete sends the prompt with system as the system instruction.
func (b *GeminiBackend) Complete(ctx context.Context, system, user string) (string, error) {
	if b.apiKey == "" {
		return "", fmt.Errorf("Gemini %w", ErrMissingAPIKey)
	}

	client, err := b.getClient(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to init gemini client: %w", err)
	}

	temperature := b.temperature
	resp, err := client.Models.GenerateContent(ctx, b.model, genai.Text(user), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       &temperature,
	})
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	return resp.Text(), nil
}
