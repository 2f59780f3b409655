package audio

import (
	"errors"
	"strings"
	"testing"
)

type mockConverter struct {
	name  string
	out   []byte
	err   error
	calls int
}

func (m *mockConverter) ToWAV(data []byte) ([]byte, error) {
	m.calls++
	return m.out, m.err
}

func (m *mockConverter) Name() string { return m.name }

func TestDecoderConverterRejectsGarbage(t *testing.T) {
	c := &DecoderConverter{TempDir: t.TempDir()}
	if _, err := c.ToWAV([]byte("xx")); err == nil {
		t.Error("expected an error for non-mp3 input")
	}
}

func TestFFmpegConverterMissingBinary(t *testing.T) {
	c := &FFmpegConverter{Binary: "vjtalk-no-such-ffmpeg"}
	_, err := c.ToWAV([]byte("xx"))
	if err == nil || !strings.Contains(err.Error(), "not installed") {
		t.Errorf("ToWAV() error = %v, want not installed", err)
	}
}

func TestConverterWithFallback(t *testing.T) {
	primary := &mockConverter{name: "primary", out: []byte("primary-wav")}
	fallback := &mockConverter{name: "fallback", out: []byte("fallback-wav")}
	c := NewConverterWithFallback(primary, fallback, nil)

	out, err := c.ToWAV([]byte("mp3"))
	if err != nil || string(out) != "primary-wav" {
		t.Errorf("ToWAV() = %q, %v", out, err)
	}
	if fallback.calls != 0 {
		t.Errorf("Expected 0 fallback calls, got %d", fallback.calls)
	}

	primary.err = errors.New("primary failed")
	out, err = c.ToWAV([]byte("mp3"))
	if err != nil || string(out) != "fallback-wav" {
		t.Errorf("ToWAV() = %q, %v", out, err)
	}
	if fallback.calls != 1 {
		t.Errorf("Expected 1 fallback call, got %d", fallback.calls)
	}

	fallback.err = errors.New("fallback failed")
	if _, err := c.ToWAV([]byte("mp3")); err == nil {
		t.Error("ToWAV() expected error when both converters fail")
	}
}

func TestConverterWithFallbackName(t *testing.T) {
	c := NewConverterWithFallback(&mockConverter{name: "primary"}, &mockConverter{name: "fallback"}, nil)
	if c.Name() != "primary (fallback: fallback)" {
		t.Errorf("Name() = %q", c.Name())
	}
}
