package gui

import (
	"errors"
	"os/exec"
	"strings"
	"testing"

	"codeberg.org/snonux/vjtalk/internal/audio"
	"codeberg.org/snonux/vjtalk/internal/langdetect"
	"codeberg.org/snonux/vjtalk/internal/processor"
	"codeberg.org/snonux/vjtalk/internal/session"
	"codeberg.org/snonux/vjtalk/internal/translation"
)

func TestExampleText(t *testing.T) {
	if got := ExampleText(langdetect.Japanese); got != "Xin chào, rất vui được gặp bạn." {
		t.Errorf("ExampleText(ja) = %q", got)
	}
	if got := ExampleText(langdetect.Vietnamese); got != "今日はとても暑いですね。" {
		t.Errorf("ExampleText(vi) = %q", got)
	}
}

func TestTurnTitleAndBody(t *testing.T) {
	sess := session.New()
	sess.Append("Xin chào", langdetect.Vietnamese, "こんにちは", langdetect.Japanese, false)
	turn := sess.Append("ありがとう", langdetect.Japanese, "Cảm ơn", langdetect.Vietnamese, false)

	if got := TurnTitle(turn); got != "Turn 2 · Speaker B" {
		t.Errorf("TurnTitle() = %q", got)
	}
	body := TurnBody(turn)
	for _, want := range []string{"(ja): ありがとう", "(vi): Cảm ơn"} {
		if !strings.Contains(body, want) {
			t.Errorf("TurnBody() = %q, missing %q", body, want)
		}
	}
}

func TestResultStatus(t *testing.T) {
	tests := []struct {
		name    string
		outcome processor.Outcome
		want    string
	}{
		{
			name: "success",
			outcome: processor.Outcome{
				Source:      langdetect.Vietnamese,
				Target:      langdetect.Japanese,
				Translation: translation.Result{Text: "こんにちは"},
			},
			want: "完了 / Hoàn tất (vi → ja)",
		},
		{
			name: "skipped",
			outcome: processor.Outcome{
				Target:      langdetect.Japanese,
				Translation: translation.Result{Skipped: true},
			},
			want: "同じ言語 / Cùng ngôn ngữ (ja)",
		},
		{
			name: "failed",
			outcome: processor.Outcome{
				Translation: translation.Result{Err: errors.New("boom")},
			},
			want: "翻訳失敗 / Dịch thất bại",
		},
		{
			name: "no audio",
			outcome: processor.Outcome{
				Source:      langdetect.Japanese,
				Target:      langdetect.Vietnamese,
				Translation: translation.Result{Text: "Xin chào"},
				SpeechErr:   errors.New("quota"),
			},
			want: "完了 / Hoàn tất (ja → vi); no audio: quota",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResultStatus(tt.outcome); got != tt.want {
				t.Errorf("ResultStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModeLabels(t *testing.T) {
	labels := ModeLabels()
	if len(labels) != 3 || labels[0] != string(ModeText) || labels[2] != string(ModeConversation) {
		t.Errorf("ModeLabels() = %v", labels)
	}
}

func TestVoiceOptions(t *testing.T) {
	if got := voiceOptions("alloy"); len(got) != len(VoiceChoices) {
		t.Errorf("voiceOptions(alloy) = %v", got)
	}
	got := voiceOptions("nova")
	if len(got) != len(VoiceChoices)+1 || got[len(got)-1] != "nova" {
		t.Errorf("voiceOptions(nova) = %v", got)
	}
	if got := voiceOptions("robot"); len(got) != len(VoiceChoices) {
		t.Errorf("voiceOptions(robot) = %v", got)
	}
}

func TestPlayerCommand(t *testing.T) {
	only := func(names ...string) func(string) (string, error) {
		return func(name string) (string, error) {
			for _, n := range names {
				if n == name {
					return "/usr/bin/" + name, nil
				}
			}
			return "", exec.ErrNotFound
		}
	}

	tests := []struct {
		name     string
		goos     string
		file     string
		lookPath func(string) (string, error)
		wantBin  string
		wantErr  bool
	}{
		{"macos", "darwin", "a.mp3", only(), "afplay", false},
		{"linux ffplay", "linux", "a.wav", only("ffplay", "mpg123"), "ffplay", false},
		{"linux mpg123 for mp3", "linux", "a.mp3", only("mpg123", "aplay"), "mpg123", false},
		{"linux aplay for wav", "linux", "a.wav", only("mpg123", "aplay"), "aplay", false},
		{"linux nothing for mp3", "linux", "a.mp3", only("aplay"), "", true},
		{"unsupported", "plan9", "a.mp3", only(), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := PlayerCommand(tt.goos, tt.file, tt.lookPath)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PlayerCommand() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if cmd.Args[0] != tt.wantBin {
				t.Errorf("PlayerCommand() runs %q, want %q", cmd.Args[0], tt.wantBin)
			}
			if cmd.Args[len(cmd.Args)-1] != tt.file {
				t.Errorf("PlayerCommand() args = %v, want file last", cmd.Args)
			}
		})
	}
}

func TestClipExtension(t *testing.T) {
	if got := clipExtension(audio.Clip{MIME: audio.MIMEWAV}); got != "wav" {
		t.Errorf("clipExtension(wav) = %q", got)
	}
	if got := clipExtension(audio.Clip{MIME: audio.MIMEMP3}); got != "mp3" {
		t.Errorf("clipExtension(mp3) = %q", got)
	}
}
