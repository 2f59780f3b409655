package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"codeberg.org/snonux/vjtalk/internal/audio"
	"codeberg.org/snonux/vjtalk/internal/langdetect"
	"codeberg.org/snonux/vjtalk/internal/translation"
)

// Credentials are the secrets read from the environment.
type Credentials struct {
	OpenAIKey        string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string `env:"OPENAI_BASE_URL"`
	GeminiKey        string `env:"GEMINI_API_KEY"`
	YandexOAuthToken string `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string `env:"YANDEX_FOLDER_ID"`
}

// LoadDotEnv loads variables from .env in the working directory. A missing
// file is not an error.
func LoadDotEnv() {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}
}

// LoadCredentials parses credentials from the environment and falls back to
// the config file for keys the environment does not set.
func LoadCredentials() (*Credentials, error) {
	creds := &Credentials{}
	if err := env.Parse(creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	if creds.OpenAIKey == "" {
		creds.OpenAIKey = viper.GetString("openai.api_key")
	}
	if creds.OpenAIBaseURL == "" {
		creds.OpenAIBaseURL = viper.GetString("openai.base_url")
	}
	if creds.GeminiKey == "" {
		creds.GeminiKey = viper.GetString("gemini.api_key")
	}
	if creds.YandexOAuthToken == "" {
		creds.YandexOAuthToken = viper.GetString("yandex.oauth_token")
	}
	if creds.YandexFolderID == "" {
		creds.YandexFolderID = viper.GetString("yandex.folder_id")
	}
	return creds, nil
}

// MissingKeyWarning returns the warning shown when the credential needed by
// the selected provider is absent, or "" when it is present. Speech always
// needs the OpenAI key.
func (c *Credentials) MissingKeyWarning(provider string) string {
	var missing []string
	if c.OpenAIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	switch strings.ToLower(provider) {
	case translation.ProviderGemini:
		if c.GeminiKey == "" {
			missing = append(missing, "GEMINI_API_KEY")
		}
	case translation.ProviderYandex:
		if c.YandexOAuthToken == "" || c.YandexFolderID == "" {
			missing = append(missing, "YANDEX_OAUTH_TOKEN/YANDEX_FOLDER_ID")
		}
	}
	if len(missing) == 0 {
		return ""
	}
	return fmt.Sprintf("Warning: %s not set. Add it to .env or the environment; remote calls will fail.", strings.Join(missing, ", "))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".vjtalk" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".vjtalk")
	}

	// Environment variables, e.g. VJTALK_AUDIO_VOICE
	viper.SetEnvPrefix("VJTALK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// Languages returns the configured source and target languages.
func Languages() (langdetect.Lang, langdetect.Lang, error) {
	src, err := langdetect.ParseSource(stringOr("language.source", "auto"))
	if err != nil {
		return "", "", err
	}
	dst, err := langdetect.ParseTarget(stringOr("language.target", "ja"))
	if err != nil {
		return "", "", err
	}
	return src, dst, nil
}

// TranslationConfig builds the backend configuration from viper and creds.
func TranslationConfig(creds *Credentials) *translation.Config {
	cfg := translation.DefaultConfig()
	cfg.Provider = stringOr("translation.provider", cfg.Provider)
	cfg.Model = viper.GetString("translation.model")
	if cfg.Provider != translation.ProviderOpenAI && cfg.Model == translation.DefaultOpenAIModel {
		// The default model name only exists on OpenAI
		cfg.Model = ""
	}
	if viper.IsSet("translation.temperature") {
		cfg.Temperature = float32(viper.GetFloat64("translation.temperature"))
	}
	cfg.OpenAIKey = creds.OpenAIKey
	cfg.OpenAIBaseURL = creds.OpenAIBaseURL
	cfg.GeminiKey = creds.GeminiKey
	cfg.YandexOAuthToken = creds.YandexOAuthToken
	cfg.YandexFolderID = creds.YandexFolderID
	return cfg
}

// AudioConfig builds the speech provider configuration from viper and creds.
func AudioConfig(creds *Credentials) *audio.Config {
	cfg := audio.DefaultProviderConfig()
	cfg.OpenAIKey = creds.OpenAIKey
	cfg.OpenAIBaseURL = creds.OpenAIBaseURL
	cfg.TTSModel = stringOr("audio.tts_model", cfg.TTSModel)
	cfg.STTModel = stringOr("audio.stt_model", cfg.STTModel)
	cfg.Voice = stringOr("audio.voice", cfg.Voice)
	cfg.OutputFormat = stringOr("audio.format", cfg.OutputFormat)
	cfg.Speed = viper.GetFloat64("audio.speed")
	cfg.Instruction = viper.GetString("audio.instruction")
	cfg.EnableCache = viper.GetBool("audio.enable_cache")
	cfg.CacheDir = viper.GetString("audio.cache_dir")
	if cfg.CacheDir == "" && (cfg.EnableCache || viper.GetBool("audio.clear_cache")) {
		cfg.CacheDir = DefaultCacheDir()
	}
	return cfg
}

// DefaultCacheDir returns the speech cache location below the user cache dir.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "vjtalk", "tts")
}

func stringOr(key, fallback string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}
