package translation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Backend is a chat-completion service that answers one system+user prompt
// with a single text completion.
type Backend interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Name() string
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderYandex = "yandex"
)

// Providers lists the accepted backend names.
var Providers = []string{ProviderOpenAI, ProviderGemini, ProviderYandex}

// Config selects and configures a backend.
type Config struct {
	Provider    string
	Model       string // empty means the provider default
	Temperature float32

	OpenAIKey     string
	OpenAIBaseURL string

	GeminiKey string

	YandexOAuthToken string
	YandexFolderID   string

	// DisableBreaker skips the circuit breaker wrapper.
	DisableBreaker bool
}

// DefaultConfig returns an OpenAI configuration with the default model.
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderOpenAI,
		Model:       DefaultOpenAIModel,
		Temperature: DefaultTemperature,
	}
}

// DefaultTemperature keeps translations close to literal.
const DefaultTemperature = 0.2

// NewBackend creates the backend named by cfg.Provider, wrapped in a circuit
// breaker unless disabled.
func NewBackend(cfg *Config, logger *zap.SugaredLogger) (Backend, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var b Backend
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderOpenAI:
		b = NewOpenAIBackend(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.Model, cfg.Temperature)
	case ProviderGemini:
		b = NewGeminiBackend(cfg.GeminiKey, cfg.Model, cfg.Temperature)
	case ProviderYandex:
		b = NewYandexBackend(cfg.YandexOAuthToken, cfg.YandexFolderID)
	default:
		return nil, fmt.Errorf("unknown translation provider: %s", cfg.Provider)
	}

	if cfg.DisableBreaker {
		return b, nil
	}
	return WithBreaker(b, logger), nil
}
