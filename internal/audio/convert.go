package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"os/exec"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"go.uber.org/zap"
)

// Converter re-encodes mp3 audio as wav.
type Converter interface {
	ToWAV(mp3Data []byte) ([]byte, error)
	Name() string
}

// DefaultConverter decodes in process and falls back to ffmpeg.
func DefaultConverter(tempDir string, logger *zap.SugaredLogger) Converter {
	return NewConverterWithFallback(
		&DecoderConverter{TempDir: tempDir},
		&FFmpegConverter{},
		logger,
	)
}

// DecoderConverter decodes mp3 with go-mp3 and writes 16-bit stereo PCM wav
// with go-audio/wav.
type DecoderConverter struct {
	TempDir string
}

// Name returns the converter name
func (c *DecoderConverter) Name() string { return "go-mp3" }

// ToWAV converts mp3Data to a wav file image.
func (c *DecoderConverter) ToWAV(mp3Data []byte) ([]byte, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(mp3Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode mp3: %w", err)
	}

	// go-mp3 always yields 16-bit little endian stereo samples
	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to decode mp3: %w", err)
	}
	if len(pcm) < 4 {
		return nil, fmt.Errorf("no audio frames decoded")
	}

	samples := make([]int, len(pcm)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(pcm[2*i:])))
	}
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 2, SampleRate: dec.SampleRate()},
		Data:           samples,
		SourceBitDepth: 16,
	}

	// The wav encoder needs to seek back to patch its header.
	out, err := os.CreateTemp(c.TempDir, "vjtalk-*.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(out.Name())
	}()
	defer out.Close()

	enc := wav.NewEncoder(out, dec.SampleRate(), 16, 2, 1)
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode wav: %w", err)
	}

	return os.ReadFile(out.Name())
}

// FFmpegConverter pipes the audio through an external ffmpeg binary.
type FFmpegConverter struct {
	// Binary overrides the ffmpeg executable name.
	Binary string
}

// Name returns the converter name
func (c *FFmpegConverter) Name() string { return "ffmpeg" }

// ToWAV converts mp3Data with ffmpeg reading stdin and writing stdout.
func (c *FFmpegConverter) ToWAV(mp3Data []byte) ([]byte, error) {
	bin := c.Binary
	if bin == "" {
		bin = "ffmpeg"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg is not installed or not in PATH: %w", err)
	}

	cmd := exec.Command(path, "-hide_banner", "-loglevel", "error", "-f", "mp3", "-i", "pipe:0", "-f", "wav", "pipe:1")
	cmd.Stdin = bytes.NewReader(mp3Data)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg conversion failed: %w\nOutput: %s", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no output")
	}
	return stdout.Bytes(), nil
}

// ConverterWithFallback wraps a primary converter with a fallback option
type ConverterWithFallback struct {
	primary  Converter
	fallback Converter
	logger   *zap.SugaredLogger
}

// NewConverterWithFallback creates a converter that falls back to secondary if primary fails
func NewConverterWithFallback(primary, fallback Converter, logger *zap.SugaredLogger) *ConverterWithFallback {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ConverterWithFallback{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// ToWAV tries primary converter first, falls back to secondary on error
func (c *ConverterWithFallback) ToWAV(mp3Data []byte) ([]byte, error) {
	out, err := c.primary.ToWAV(mp3Data)
	if err == nil {
		return out, nil
	}
	c.logger.Debugw("primary converter failed, trying fallback",
		"primary", c.primary.Name(), "fallback", c.fallback.Name(), "error", err)

	out, fallbackErr := c.fallback.ToWAV(mp3Data)
	if fallbackErr != nil {
		return nil, fmt.Errorf("both converters failed: primary=%v, fallback=%v", err, fallbackErr)
	}
	return out, nil
}

// Name returns the converter name
func (c *ConverterWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", c.primary.Name(), c.fallback.Name())
}
