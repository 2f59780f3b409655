package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/vjtalk/internal/audio"
	"codeberg.org/snonux/vjtalk/internal/cli"
	"codeberg.org/snonux/vjtalk/internal/processor"
	"codeberg.org/snonux/vjtalk/internal/testutil"
	"codeberg.org/snonux/vjtalk/internal/translation"
)

func TestInputText(t *testing.T) {
	got, err := inputText([]string{"Xin", "chào"}, strings.NewReader("ignored"))
	if err != nil || got != "Xin chào" {
		t.Errorf("inputText(args) = %q, %v", got, err)
	}

	got, err = inputText(nil, strings.NewReader("今日は\n"))
	if err != nil || got != "今日は\n" {
		t.Errorf("inputText(stdin) = %q, %v", got, err)
	}
}

func TestNumberedPath(t *testing.T) {
	tests := map[string]string{
		"":             "",
		"out.mp3":      "out-3.mp3",
		"dir/turn.wav": "dir/turn-3.wav",
		"noext":        "noext-3",
	}
	for in, want := range tests {
		if got := numberedPath(in, 3); got != want {
			t.Errorf("numberedPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteClip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "clip.mp3")
	var buf bytes.Buffer

	clip := audio.Clip{Data: []byte("ID3"), MIME: audio.MIMEMP3, Format: audio.FormatMP3}
	if err := writeClip(&buf, clip, path); err != nil {
		t.Fatalf("writeClip() error = %v", err)
	}
	testutil.AssertFileContent(t, path, []byte("ID3"))
	if !strings.Contains(buf.String(), path) {
		t.Errorf("output %q does not name the file", buf.String())
	}
}

func TestReport(t *testing.T) {
	r := &runner{}
	var buf bytes.Buffer

	out := processor.Outcome{
		Target:      "ja",
		Translation: translation.Result{Text: "こんにちは"},
		Reading:     "コンニチハ",
	}
	if err := r.report(&buf, out, ""); err != nil {
		t.Fatalf("report() error = %v", err)
	}
	if got := buf.String(); got != "Translation (ja): こんにちは\nReading: コンニチハ\n" {
		t.Errorf("report() wrote %q", got)
	}

	// Speech failures do not fail the command
	buf.Reset()
	out.SpeechErr = errors.New("quota")
	if err := r.report(&buf, out, filepath.Join(t.TempDir(), "x.mp3")); err != nil {
		t.Errorf("report() with speech error = %v", err)
	}
}

func TestDetectText(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		stdin string
		want  string
	}{
		{"japanese args", []string{"こんにちは"}, "", "ja\n"},
		{"vietnamese args", []string{"Xin", "chao"}, "", "vi\n"},
		{"stdin", nil, "今日はとても暑いですね。\n", "ja\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := detectText(&buf, tt.args, strings.NewReader(tt.stdin)); err != nil {
				t.Fatalf("detectText() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("detectText() wrote %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestDetectTextNeedsNoProvider(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("translation.provider", "bogus")

	var buf bytes.Buffer
	if err := detectText(&buf, []string{"こんにちは"}, strings.NewReader("")); err != nil {
		t.Fatalf("detectText() error = %v", err)
	}
	if buf.String() != "ja\n" {
		t.Errorf("detectText() wrote %q", buf.String())
	}
}

func TestDetectTextEmpty(t *testing.T) {
	err := detectText(&bytes.Buffer{}, nil, strings.NewReader("  \n"))
	if !errors.Is(err, processor.ErrEmptyInput) {
		t.Errorf("detectText() error = %v, want ErrEmptyInput", err)
	}
}

func TestRunnerTimeout(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()
	r := &runner{flags: cli.NewFlags()}

	if got := r.timeout(); got != 60*time.Second {
		t.Errorf("timeout() = %v, want the 60s flag default", got)
	}

	viper.Set("timeout", "5s")
	if got := r.timeout(); got != 5*time.Second {
		t.Errorf("timeout() = %v, want 5s from config", got)
	}
}
