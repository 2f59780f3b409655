package audio

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"codeberg.org/snonux/vjtalk/internal/breaker"
)

// OpenAIProvider implements Synthesizer and Transcriber on the OpenAI audio API
type OpenAIProvider struct {
	client    *openai.Client
	config    *Config
	converter Converter
	logger    *zap.SugaredLogger

	ttsBreaker *gobreaker.CircuitBreaker
	sttBreaker *gobreaker.CircuitBreaker
}

// NewOpenAIProvider creates a new OpenAI speech provider. A missing key is
// not an error here; every remote call then fails on its own.
func NewOpenAIProvider(config *Config, logger *zap.SugaredLogger) (*OpenAIProvider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	defaults := DefaultProviderConfig()
	if config.TTSModel == "" {
		config.TTSModel = defaults.TTSModel
	}
	if config.STTModel == "" {
		config.STTModel = defaults.STTModel
	}
	if config.Voice == "" {
		config.Voice = defaults.Voice
	}

	clientConfig := openai.DefaultConfig(config.OpenAIKey)
	if config.OpenAIBaseURL != "" {
		clientConfig.BaseURL = config.OpenAIBaseURL
	}

	provider := &OpenAIProvider{
		client:     openai.NewClientWithConfig(clientConfig),
		config:     config,
		converter:  DefaultConverter(config.TempDir, logger),
		logger:     logger,
		ttsBreaker: breaker.New("openai-tts", logger, ErrMissingAPIKey),
		sttBreaker: breaker.New("openai-stt", logger, ErrMissingAPIKey),
	}

	// Create cache directory if caching is enabled
	if config.EnableCache && config.CacheDir != "" {
		if err := os.MkdirAll(config.CacheDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	return provider, nil
}

// SetConverter replaces the mp3 to wav converter.
func (p *OpenAIProvider) SetConverter(c Converter) {
	p.converter = c
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the OpenAI API is accessible
func (p *OpenAIProvider) IsAvailable() error {
	if p.config.OpenAIKey == "" {
		return ErrMissingAPIKey
	}

	// We could make a test API call here, but that would use credits
	return nil
}

// Synthesize requests speech for text. The service always answers in mp3;
// when format is wav the clip is converted locally, and if that fails the
// original mp3 is returned instead.
func (p *OpenAIProvider) Synthesize(ctx context.Context, text, voice, format string) (Clip, error) {
	if strings.TrimSpace(text) == "" {
		return Clip{MIME: MIMEMP3, Format: FormatMP3}, nil
	}
	if voice == "" {
		voice = p.config.Voice
	}
	if format == "" {
		format = p.config.OutputFormat
	}

	raw, err := p.speech(ctx, text, voice)
	if err != nil {
		return Clip{}, err
	}
	mp3Clip := Clip{Data: raw, MIME: MIMEMP3, Format: FormatMP3}

	if !strings.EqualFold(format, FormatWAV) {
		return mp3Clip, nil
	}

	wav, err := p.converter.ToWAV(raw)
	if err != nil {
		p.logger.Warnw("wav conversion failed, returning mp3", "converter", p.converter.Name(), "error", err)
		return mp3Clip, nil
	}
	return Clip{Data: wav, MIME: MIMEWAV, Format: FormatWAV}, nil
}

// speech returns mp3 bytes for text, from the cache when possible.
func (p *OpenAIProvider) speech(ctx context.Context, text, voice string) ([]byte, error) {
	if p.config.OpenAIKey == "" {
		return nil, ErrMissingAPIKey
	}

	cacheFile := ""
	if p.config.EnableCache && p.config.CacheDir != "" {
		cacheFile = p.getCacheFilePath(text, voice)
		if data, err := os.ReadFile(cacheFile); err == nil && len(data) > 0 {
			p.logger.Debugw("tts cache hit", "file", cacheFile)
			return data, nil
		}
	}

	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.config.TTSModel),
		Input:          text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          p.config.Speed,
	}
	if p.config.Instruction != "" && supportsInstructions(p.config.TTSModel) {
		req.Instructions = p.config.Instruction
	}

	p.logger.Debugw("requesting speech", "model", p.config.TTSModel, "voice", voice, "chars", len(text))

	data, err := breaker.Do(p.ttsBreaker, func() ([]byte, error) {
		response, err := p.client.CreateSpeech(ctx, req)
		if err != nil {
			// Check if it's a model access error
			if strings.Contains(err.Error(), "does not have access to model") && supportsInstructions(p.config.TTSModel) {
				return nil, fmt.Errorf("OpenAI TTS API error: %w\nNote: The %s model requires access. Try --tts-model tts-1-hd instead", err, p.config.TTSModel)
			}
			return nil, fmt.Errorf("OpenAI TTS API error: %w", err)
		}
		defer response.Close()

		data, err := io.ReadAll(response)
		if err != nil {
			return nil, fmt.Errorf("failed to read audio data: %w", err)
		}
		if len(data) == 0 {
			return nil, fmt.Errorf("no audio data received from OpenAI")
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}

	if cacheFile != "" {
		_ = p.writeCacheFile(cacheFile, data) // Ignore cache errors
	}
	return data, nil
}

// getCacheFilePath generates a cache file path for the given text and voice
func (p *OpenAIProvider) getCacheFilePath(text, voice string) string {
	h := md5.New()
	h.Write([]byte(text))
	h.Write([]byte(p.config.TTSModel))
	h.Write([]byte(voice))
	h.Write([]byte(fmt.Sprintf("%.2f", p.config.Speed)))
	if supportsInstructions(p.config.TTSModel) && p.config.Instruction != "" {
		h.Write([]byte(p.config.Instruction))
	}
	hash := hex.EncodeToString(h.Sum(nil))

	// Use first 2 chars as subdirectory for better file system performance
	return filepath.Join(p.config.CacheDir, hash[:2], hash[2:]+".mp3")
}

func (p *OpenAIProvider) writeCacheFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ClearCache removes all cached audio files
func (p *OpenAIProvider) ClearCache() error {
	if p.config.CacheDir == "" {
		return nil
	}
	return os.RemoveAll(p.config.CacheDir)
}

// GetCacheStats returns cache statistics
func (p *OpenAIProvider) GetCacheStats() (fileCount int, totalSize int64, err error) {
	if !p.config.EnableCache || p.config.CacheDir == "" {
		return 0, 0, nil
	}

	err = filepath.Walk(p.config.CacheDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			fileCount++
			totalSize += info.Size()
		}
		return nil
	})

	return fileCount, totalSize, err
}
