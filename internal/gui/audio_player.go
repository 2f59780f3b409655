package gui

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/vjtalk/internal/audio"
)

// AudioPlayer is a custom widget for playing synthesized clips
type AudioPlayer struct {
	widget.BaseWidget

	container   *fyne.Container
	playButton  *ttwidget.Button
	stopButton  *ttwidget.Button
	statusLabel *widget.Label

	clip      audio.Clip
	audioFile string // temp file holding clip for the external player
	isPlaying bool
	playCmd   *exec.Cmd
	voiceInfo string
}

// NewAudioPlayer creates a new audio player widget
func NewAudioPlayer() *AudioPlayer {
	p := &AudioPlayer{}

	// Create controls with tooltips
	p.playButton = ttwidget.NewButton("", p.onPlay)
	p.playButton.Icon = theme.MediaPlayIcon()
	p.playButton.SetToolTip("Play audio (Ctrl+P)")

	p.stopButton = ttwidget.NewButton("", p.onStop)
	p.stopButton.Icon = theme.MediaStopIcon()
	p.stopButton.SetToolTip("Stop audio")

	p.statusLabel = widget.NewLabel("No audio")

	// Initially disable controls
	p.playButton.Disable()
	p.stopButton.Disable()

	p.container = container.NewHBox(
		p.playButton,
		p.stopButton,
		layout.NewSpacer(),
		p.statusLabel,
	)

	p.ExtendBaseWidget(p)
	return p
}

// CreateRenderer implements fyne.Widget
func (p *AudioPlayer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.container)
}

// SetClip loads a clip. An empty clip clears the player.
func (p *AudioPlayer) SetClip(clip audio.Clip, voice string) error {
	p.Clear()
	if clip.Empty() {
		return nil
	}

	f, err := os.CreateTemp("", "vjtalk-play-*."+clipExtension(clip))
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := f.Write(clip.Data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	f.Close()

	p.clip = clip
	p.audioFile = f.Name()
	p.voiceInfo = ""
	if voice != "" {
		p.voiceInfo = fmt.Sprintf(" (voice: %s)", voice)
	}
	p.playButton.Enable()
	p.statusLabel.SetText(fmt.Sprintf("Audio: %s, %d KB%s", clip.MIME, (len(clip.Data)+1023)/1024, p.voiceInfo))
	return nil
}

// Clip returns the loaded clip.
func (p *AudioPlayer) Clip() audio.Clip {
	return p.clip
}

// Clear stops playback and removes the temp file
func (p *AudioPlayer) Clear() {
	p.onStop()
	if p.audioFile != "" {
		_ = os.Remove(p.audioFile)
	}
	p.clip = audio.Clip{}
	p.audioFile = ""
	p.isPlaying = false
	p.voiceInfo = ""
	p.playButton.Disable()
	p.stopButton.Disable()
	p.statusLabel.SetText("No audio")
}

// onPlay handles play button click
func (p *AudioPlayer) onPlay() {
	if p.audioFile == "" {
		return
	}

	if p.isPlaying {
		p.onStop()
		return
	}

	if err := p.startPlayback(); err != nil {
		p.statusLabel.SetText(fmt.Sprintf("Error: %v", err))
		return
	}

	p.isPlaying = true
	p.playButton.SetIcon(theme.MediaPauseIcon())
	p.stopButton.Enable()
	p.statusLabel.SetText("Playing" + p.voiceInfo)
}

// onStop handles stop button click
func (p *AudioPlayer) onStop() {
	if p.playCmd != nil && p.playCmd.Process != nil {
		p.playCmd.Process.Kill()
		p.playCmd = nil
	}

	if p.isPlaying {
		p.statusLabel.SetText("Stopped" + p.voiceInfo)
	}
	p.isPlaying = false
	p.playButton.SetIcon(theme.MediaPlayIcon())
	p.stopButton.Disable()
}

// Play triggers audio playback
func (p *AudioPlayer) Play() {
	if !p.playButton.Disabled() && !p.isPlaying {
		p.onPlay()
	}
}

// startPlayback starts audio playback using platform-specific commands
func (p *AudioPlayer) startPlayback() error {
	cmd, err := PlayerCommand(runtime.GOOS, p.audioFile, exec.LookPath)
	if err != nil {
		return err
	}

	// Store the command so we can stop it later
	p.playCmd = cmd

	go func() {
		err := cmd.Run()
		if err == nil {
			// Playback finished normally
			fyne.Do(func() {
				p.isPlaying = false
				p.playButton.SetIcon(theme.MediaPlayIcon())
				p.stopButton.Disable()
				p.statusLabel.SetText("Finished" + p.voiceInfo)
			})
		}
	}()

	return nil
}

// PlayerCommand picks an external player for file on goos. lookPath reports
// whether a binary is installed.
func PlayerCommand(goos, file string, lookPath func(string) (string, error)) (*exec.Cmd, error) {
	switch goos {
	case "darwin": // macOS
		return exec.Command("afplay", file), nil
	case "linux":
		// Try multiple commands in order of preference
		// ffplay first since it handles both mp3 and wav
		if _, err := lookPath("ffplay"); err == nil {
			return exec.Command("ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", file), nil
		} else if _, err := lookPath("mpg123"); err == nil && !isWAV(file) {
			return exec.Command("mpg123", "-q", file), nil
		} else if _, err := lookPath("play"); err == nil {
			// SoX play command
			return exec.Command("play", "-q", file), nil
		} else if _, err := lookPath("paplay"); err == nil && isWAV(file) {
			return exec.Command("paplay", file), nil
		} else if _, err := lookPath("aplay"); err == nil && isWAV(file) {
			return exec.Command("aplay", "-q", file), nil
		}
		return nil, fmt.Errorf("no audio player found. Install ffplay, mpg123, sox, paplay, or aplay")
	case "windows":
		return exec.Command("cmd", "/c", "start", "/min", file), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

func clipExtension(clip audio.Clip) string {
	if clip.MIME == audio.MIMEWAV {
		return audio.FormatWAV
	}
	return audio.FormatMP3
}

func isWAV(file string) bool {
	return len(file) > 4 && file[len(file)-4:] == ".wav"
}
