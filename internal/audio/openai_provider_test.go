package audio

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"codeberg.org/snonux/vjtalk/internal/langdetect"
)

var fakeMP3 = []byte("ID3fake-mp3-payload")

// fakeAudioAPI serves the speech and transcription endpoints.
type fakeAudioAPI struct {
	mu sync.Mutex

	speechCalls   int
	speechBodies  []map[string]interface{}
	transcribeLog []transcribeEntry
	transcript    string
	fail          bool
}

type transcribeEntry struct {
	model    string
	language string
	filename string
	size     int
}

func (f *fakeAudioAPI) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.fail {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}

		switch r.URL.Path {
		case "/v1/audio/speech":
			f.speechCalls++
			var body map[string]interface{}
			json.NewDecoder(r.Body).Decode(&body)
			f.speechBodies = append(f.speechBodies, body)
			w.Header().Set("Content-Type", "audio/mpeg")
			w.Write(fakeMP3)

		case "/v1/audio/transcriptions":
			_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil {
				t.Errorf("bad content type: %v", err)
				return
			}
			mr := multipart.NewReader(r.Body, params["boundary"])
			var entry transcribeEntry
			for {
				part, err := mr.NextPart()
				if err == io.EOF {
					break
				}
				if err != nil {
					t.Errorf("multipart: %v", err)
					return
				}
				data, _ := io.ReadAll(part)
				switch part.FormName() {
				case "model":
					entry.model = string(data)
				case "language":
					entry.language = string(data)
				case "file":
					entry.filename = part.FileName()
					entry.size = len(data)
				}
			}
			f.transcribeLog = append(f.transcribeLog, entry)
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"text": f.transcript})

		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	})
}

func newTestProvider(t *testing.T, fake *fakeAudioAPI, mutate func(*Config)) (*OpenAIProvider, string) {
	t.Helper()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	tempDir := t.TempDir()
	config := DefaultProviderConfig()
	config.OpenAIKey = "test-key"
	config.OpenAIBaseURL = srv.URL + "/v1"
	config.TempDir = tempDir
	if mutate != nil {
		mutate(config)
	}

	p, err := NewOpenAIProvider(config, nil)
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error = %v", err)
	}
	return p, tempDir
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir(%s): %v", dir, err)
	}
	if len(entries) != 0 {
		t.Errorf("expected %s to be empty, found %d entries", dir, len(entries))
	}
}

func TestNewOpenAIProvider(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:   "nil config uses defaults",
			config: nil,
		},
		{
			name:   "missing API key is allowed",
			config: &Config{},
		},
		{
			name: "valid config with cache",
			config: &Config{
				OpenAIKey:   "test-key",
				EnableCache: true,
				CacheDir:    filepath.Join(t.TempDir(), "cache"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewOpenAIProvider(tt.config, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewOpenAIProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
			if provider.Name() != "openai" {
				t.Errorf("Name() = %v, want openai", provider.Name())
			}
			if provider.config.TTSModel == "" || provider.config.STTModel == "" || provider.config.Voice == "" {
				t.Errorf("defaults not filled in: %+v", provider.config)
			}
			if tt.config != nil && tt.config.EnableCache {
				if _, err := os.Stat(tt.config.CacheDir); err != nil {
					t.Errorf("cache dir not created: %v", err)
				}
			}
		})
	}
}

func TestOpenAIProviderIsAvailable(t *testing.T) {
	with, _ := NewOpenAIProvider(&Config{OpenAIKey: "test-key"}, nil)
	if err := with.IsAvailable(); err != nil {
		t.Errorf("IsAvailable() = %v, want nil", err)
	}
	without, _ := NewOpenAIProvider(&Config{}, nil)
	if err := without.IsAvailable(); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("IsAvailable() = %v, want ErrMissingAPIKey", err)
	}
}

func TestSynthesizeEmptyTextSkipsRemoteCall(t *testing.T) {
	fake := &fakeAudioAPI{}
	p, _ := newTestProvider(t, fake, nil)

	for _, voice := range []string{"", "alloy", "verse"} {
		for _, format := range []string{"mp3", "wav", "ogg"} {
			for _, text := range []string{"", "   ", "\n\t"} {
				clip, err := p.Synthesize(context.Background(), text, voice, format)
				if err != nil {
					t.Fatalf("Synthesize(%q) error = %v", text, err)
				}
				if !clip.Empty() || clip.MIME != MIMEMP3 {
					t.Errorf("Synthesize(%q, %s, %s) = %d bytes %s, want empty audio/mp3", text, voice, format, len(clip.Data), clip.MIME)
				}
			}
		}
	}
	if fake.speechCalls != 0 {
		t.Errorf("speech endpoint called %d times, want 0", fake.speechCalls)
	}
}

func TestSynthesizeMP3(t *testing.T) {
	fake := &fakeAudioAPI{}
	p, _ := newTestProvider(t, fake, nil)

	clip, err := p.Synthesize(context.Background(), "こんにちは", "verse", FormatMP3)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if string(clip.Data) != string(fakeMP3) || clip.MIME != MIMEMP3 {
		t.Errorf("clip = %q %s", clip.Data, clip.MIME)
	}
	if fake.speechCalls != 1 {
		t.Fatalf("speech calls = %d, want 1", fake.speechCalls)
	}
	body := fake.speechBodies[0]
	if body["model"] != "gpt-4o-mini-tts" || body["voice"] != "verse" || body["input"] != "こんにちは" {
		t.Errorf("request body = %v", body)
	}
	if body["response_format"] != "mp3" {
		t.Errorf("response_format = %v, want mp3", body["response_format"])
	}
}

func TestSynthesizeDefaultVoice(t *testing.T) {
	fake := &fakeAudioAPI{}
	p, _ := newTestProvider(t, fake, func(c *Config) { c.Voice = "sage" })

	if _, err := p.Synthesize(context.Background(), "Xin chào", "", FormatMP3); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if fake.speechBodies[0]["voice"] != "sage" {
		t.Errorf("voice = %v, want sage", fake.speechBodies[0]["voice"])
	}
}

func TestSynthesizeWAVConversion(t *testing.T) {
	fake := &fakeAudioAPI{}
	p, _ := newTestProvider(t, fake, nil)
	conv := &mockConverter{name: "mock", out: []byte("RIFF....WAVE")}
	p.SetConverter(conv)

	clip, err := p.Synthesize(context.Background(), "Xin chào", "alloy", FormatWAV)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if clip.MIME != MIMEWAV || string(clip.Data) != "RIFF....WAVE" {
		t.Errorf("clip = %q %s, want converted wav", clip.Data, clip.MIME)
	}
	if conv.calls != 1 {
		t.Errorf("converter calls = %d, want 1", conv.calls)
	}
}

func TestSynthesizeWAVConversionFailureFallsBackToMP3(t *testing.T) {
	fake := &fakeAudioAPI{}
	p, _ := newTestProvider(t, fake, nil)
	p.SetConverter(&mockConverter{name: "broken", err: errors.New("no decoder")})

	clip, err := p.Synthesize(context.Background(), "Xin chào", "alloy", FormatWAV)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if clip.MIME != MIMEMP3 || string(clip.Data) != string(fakeMP3) {
		t.Errorf("clip = %q %s, want original mp3", clip.Data, clip.MIME)
	}
}

func TestSynthesizeDefaultConverterFallsBackOnFakeMP3(t *testing.T) {
	fake := &fakeAudioAPI{}
	p, _ := newTestProvider(t, fake, nil)
	// Neither the decoder nor a missing ffmpeg can handle the fake payload.
	p.SetConverter(NewConverterWithFallback(&DecoderConverter{TempDir: t.TempDir()}, &FFmpegConverter{Binary: "vjtalk-no-such-ffmpeg"}, nil))

	clip, err := p.Synthesize(context.Background(), "Xin chào", "alloy", FormatWAV)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if clip.MIME != MIMEMP3 {
		t.Errorf("MIME = %s, want audio/mp3", clip.MIME)
	}
}

func TestSynthesizeRemoteError(t *testing.T) {
	fake := &fakeAudioAPI{fail: true}
	p, _ := newTestProvider(t, fake, nil)

	if _, err := p.Synthesize(context.Background(), "Xin chào", "alloy", FormatMP3); err == nil {
		t.Error("expected error from failing speech endpoint")
	}
}

func TestSynthesizeMissingKey(t *testing.T) {
	p, _ := NewOpenAIProvider(&Config{}, nil)
	if _, err := p.Synthesize(context.Background(), "Xin chào", "", FormatMP3); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("error = %v, want ErrMissingAPIKey", err)
	}
}

func TestSynthesizeCache(t *testing.T) {
	fake := &fakeAudioAPI{}
	cacheDir := filepath.Join(t.TempDir(), "cache")
	p, _ := newTestProvider(t, fake, func(c *Config) {
		c.EnableCache = true
		c.CacheDir = cacheDir
	})

	for i := 0; i < 3; i++ {
		if _, err := p.Synthesize(context.Background(), "Xin chào", "alloy", FormatMP3); err != nil {
			t.Fatalf("Synthesize() error = %v", err)
		}
	}
	if fake.speechCalls != 1 {
		t.Errorf("speech calls = %d, want 1 (cached afterwards)", fake.speechCalls)
	}

	// A different voice is a different cache entry.
	if _, err := p.Synthesize(context.Background(), "Xin chào", "nova", FormatMP3); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if fake.speechCalls != 2 {
		t.Errorf("speech calls = %d, want 2", fake.speechCalls)
	}

	count, size, err := p.GetCacheStats()
	if err != nil || count != 2 || size != int64(2*len(fakeMP3)) {
		t.Errorf("GetCacheStats() = %d, %d, %v", count, size, err)
	}

	if err := p.ClearCache(); err != nil {
		t.Fatalf("ClearCache() error = %v", err)
	}
	if _, err := os.Stat(cacheDir); !os.IsNotExist(err) {
		t.Errorf("cache dir still exists after ClearCache")
	}
}

func TestGetCacheFilePath(t *testing.T) {
	p := &OpenAIProvider{config: &Config{CacheDir: "/cache", TTSModel: "tts-1"}}

	a := p.getCacheFilePath("Xin chào", "alloy")
	b := p.getCacheFilePath("Xin chào", "alloy")
	c := p.getCacheFilePath("Xin chào", "nova")

	if a != b {
		t.Error("same input should give the same cache path")
	}
	if a == c {
		t.Error("different voices should give different cache paths")
	}
	if filepath.Ext(a) != ".mp3" {
		t.Errorf("cache path %s should end in .mp3", a)
	}
}

func TestTranscribe(t *testing.T) {
	fake := &fakeAudioAPI{transcript: "  Xin chào  \n"}
	p, tempDir := newTestProvider(t, fake, nil)
	recording := []byte("RIFF\x24\x00\x00\x00WAVEfmt fake")

	tests := []struct {
		hint     langdetect.Lang
		wantLang string
	}{
		{langdetect.Vietnamese, "vi"},
		{langdetect.Japanese, "ja"},
		{langdetect.Auto, ""},
		{"en", ""},
	}

	for i, tt := range tests {
		text, err := p.Transcribe(context.Background(), recording, tt.hint)
		if err != nil {
			t.Fatalf("Transcribe(hint=%s) error = %v", tt.hint, err)
		}
		if text != "Xin chào" {
			t.Errorf("Transcribe() = %q, want trimmed text", text)
		}
		entry := fake.transcribeLog[i]
		if entry.language != tt.wantLang {
			t.Errorf("hint %s: language = %q, want %q", tt.hint, entry.language, tt.wantLang)
		}
		if entry.model != "gpt-4o-mini-transcribe" {
			t.Errorf("model = %q", entry.model)
		}
		if filepath.Ext(entry.filename) != ".wav" || entry.size != len(recording) {
			t.Errorf("uploaded file = %s (%d bytes)", entry.filename, entry.size)
		}
	}

	assertDirEmpty(t, tempDir)
}

func TestTranscribeRemovesTempFileOnFailure(t *testing.T) {
	fake := &fakeAudioAPI{fail: true}
	p, tempDir := newTestProvider(t, fake, nil)

	if _, err := p.Transcribe(context.Background(), []byte("ID3 mp3 data"), langdetect.Auto); err == nil {
		t.Fatal("expected error from failing transcription endpoint")
	}
	assertDirEmpty(t, tempDir)
}

func TestTranscribeEmptyAudio(t *testing.T) {
	fake := &fakeAudioAPI{}
	p, _ := newTestProvider(t, fake, nil)

	if _, err := p.Transcribe(context.Background(), nil, langdetect.Auto); !errors.Is(err, ErrEmptyAudio) {
		t.Errorf("error = %v, want ErrEmptyAudio", err)
	}
	if len(fake.transcribeLog) != 0 {
		t.Error("transcription endpoint should not be called for empty audio")
	}
}

func TestTranscribeMissingKey(t *testing.T) {
	p, _ := NewOpenAIProvider(&Config{TempDir: t.TempDir()}, nil)
	if _, err := p.Transcribe(context.Background(), []byte("data"), langdetect.Vietnamese); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("error = %v, want ErrMissingAPIKey", err)
	}
}

func TestTranscribe_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	sample := os.Getenv("VJTALK_SAMPLE_AUDIO")
	if apiKey == "" || sample == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY or VJTALK_SAMPLE_AUDIO not set")
	}
	data, err := os.ReadFile(sample)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	p, _ := NewOpenAIProvider(&Config{OpenAIKey: apiKey}, nil)
	text, err := p.Transcribe(context.Background(), data, langdetect.Auto)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	t.Logf("Transcript: %s", text)
}
