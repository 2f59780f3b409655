package translation

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is the chat model used for translation.
const DefaultOpenAIModel = openai.GPT4oMini

// OpenAIBackend translates with an OpenAI chat completion.
type OpenAIBackend struct {
	apiKey      string
	model       string
	temperature float32
	client      *openai.Client
}

// NewOpenAIBackend creates an OpenAI backend. baseURL may be empty.
func NewOpenAIBackend(apiKey, baseURL, model string, temperature float32) *OpenAIBackend {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIBackend{
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		client:      openai.NewClientWithConfig(config),
	}
}

// Name returns the backend name.
func (b *OpenAIBackend) Name() string { return ProviderOpenAI }

// Complete sends one system+user exchange and returns the reply content.
func (b *OpenAIBackend) Complete(ctx context.Context, system, user string) (string, error) {
	if b.apiKey == "" {
		return "", fmt.Errorf("OpenAI %w", ErrMissingAPIKey)
	}

	req := openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: b.temperature,
	}

	resp, err := b.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation returned")
	}
	return resp.Choices[0].Message.Content, nil
}
