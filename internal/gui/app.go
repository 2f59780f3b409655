package gui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"codeberg.org/snonux/vjtalk/internal"
	"codeberg.org/snonux/vjtalk/internal/audio"
	"codeberg.org/snonux/vjtalk/internal/langdetect"
	"codeberg.org/snonux/vjtalk/internal/processor"
	"codeberg.org/snonux/vjtalk/internal/session"
)

// Engine runs the interactions the window offers.
type Engine interface {
	TranslateText(ctx context.Context, text string, src, dst langdetect.Lang) (processor.Outcome, error)
	VoiceInput(ctx context.Context, recording []byte, src, dst langdetect.Lang) (processor.Outcome, error)
	ConversationTurn(ctx context.Context, sess *session.Session, recording []byte) (processor.Outcome, error)
	SetSpeech(voice, format string)
}

// Application represents the GUI application
type Application struct {
	app    fyne.App
	window fyne.Window

	// UI components
	modeRadio       *widget.RadioGroup
	sourceSelect    *widget.Select
	targetSelect    *widget.Select
	voiceSelect     *widget.Select
	formatSelect    *widget.Select
	input           *CustomMultiLineEntry
	output          *widget.Entry
	transcriptLabel *widget.Label
	readingLabel    *widget.Label
	translateButton *ttwidget.Button
	openButton      *ttwidget.Button
	saveButton      *ttwidget.Button
	resetButton     *ttwidget.Button
	audioPlayer     *AudioPlayer
	history         *HistoryView
	logViewer       *LogViewer
	statusLabel     *widget.Label

	engine  Engine
	config  *Config
	logger  *zap.SugaredLogger
	session *session.Session

	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	busy bool
	mode Mode
}

// Config holds GUI application configuration
type Config struct {
	Source   langdetect.Lang
	Target   langdetect.Lang
	Voice    string
	Format   string
	AutoPlay bool
	// Warning is shown in the status bar at startup, e.g. a missing API key.
	Warning string
}

// DefaultConfig returns default GUI configuration
func DefaultConfig() *Config {
	return &Config{
		Source:   langdetect.Auto,
		Target:   langdetect.Japanese,
		Voice:    "alloy",
		Format:   audio.FormatMP3,
		AutoPlay: true,
	}
}

// New creates a new GUI application. Log output of logger is mirrored into
// the window; use Logger to get the mirrored logger.
func New(config *Config, logger *zap.SugaredLogger) *Application {
	defaults := DefaultConfig()
	if config == nil {
		config = defaults
	} else {
		// Fill in missing fields with defaults
		if config.Source == "" {
			config.Source = defaults.Source
		}
		if config.Target == "" {
			config.Target = defaults.Target
		}
		if config.Voice == "" {
			config.Voice = defaults.Voice
		}
		if config.Format == "" {
			config.Format = defaults.Format
		}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	ctx, cancel := context.WithCancel(context.Background())

	a := &Application{
		app:     app.NewWithID("org.codeberg.snonux.vjtalk"),
		config:  config,
		session: session.New(),
		ctx:     ctx,
		cancel:  cancel,
		mode:    ModeText,
	}
	a.logViewer = NewLogViewer()
	a.logger = a.logViewer.Attach(logger, zapcore.InfoLevel)

	a.setupUI()
	return a
}

// Logger returns the logger whose output also appears in the window.
func (a *Application) Logger() *zap.SugaredLogger {
	return a.logger
}

// SetEngine connects the window to the interaction engine.
func (a *Application) SetEngine(engine Engine) {
	a.engine = engine
	engine.SetSpeech(a.config.Voice, a.config.Format)
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("vjtalk v%s - Tiếng Việt ⇄ 日本語", internal.Version))
	a.window.Resize(fyne.NewSize(900, 760))

	a.modeRadio = widget.NewRadioGroup(ModeLabels(), func(s string) { a.onModeChanged(Mode(s)) })
	a.modeRadio.Horizontal = true

	a.sourceSelect = widget.NewSelect(SourceChoices, nil)
	a.sourceSelect.SetSelected(string(a.config.Source))

	a.targetSelect = widget.NewSelect(TargetChoices, nil)
	a.targetSelect.SetSelected(string(a.config.Target))
	a.targetSelect.OnChanged = a.onTargetChanged

	a.voiceSelect = widget.NewSelect(voiceOptions(a.config.Voice), func(string) { a.onSpeechChanged() })
	a.voiceSelect.SetSelected(a.config.Voice)

	a.formatSelect = widget.NewSelect(audio.Formats, func(string) { a.onSpeechChanged() })
	a.formatSelect.SetSelected(a.config.Format)

	a.input = NewCustomMultiLineEntry()
	a.input.SetText(ExampleText(a.config.Target))
	a.input.SetMinRowsVisible(5)
	a.input.SetOnSubmit(a.onTranslate)
	a.input.SetOnEscape(func() { a.window.Canvas().Unfocus() })

	a.output = widget.NewMultiLineEntry()
	a.output.Wrapping = fyne.TextWrapWord
	a.output.SetMinRowsVisible(5)

	a.transcriptLabel = widget.NewLabel("")
	a.transcriptLabel.Wrapping = fyne.TextWrapWord
	a.readingLabel = widget.NewLabel("")
	a.readingLabel.Wrapping = fyne.TextWrapWord

	// Buttons; tooltips are set once the tooltip layer exists
	a.translateButton = ttwidget.NewButton("翻訳 / Dịch", a.onTranslate)
	a.translateButton.Icon = theme.ConfirmIcon()
	a.translateButton.Importance = widget.HighImportance

	a.openButton = ttwidget.NewButton("録音を開く / Mở bản ghi", a.onOpenRecording)
	a.openButton.Icon = theme.FolderOpenIcon()

	a.saveButton = ttwidget.NewButton("", a.onSaveAudio)
	a.saveButton.Icon = theme.DocumentSaveIcon()
	a.saveButton.Disable()

	a.resetButton = ttwidget.NewButton("", a.onResetConversation)
	a.resetButton.Icon = theme.DeleteIcon()

	a.audioPlayer = NewAudioPlayer()
	a.history = NewHistoryView()
	a.statusLabel = widget.NewLabel("Ready")
	if a.config.Warning != "" {
		a.statusLabel.SetText(a.config.Warning)
	}

	settings := widget.NewForm(
		widget.NewFormItem("入力言語 / Ngôn ngữ nguồn", a.sourceSelect),
		widget.NewFormItem("出力言語 / Ngôn ngữ đích", a.targetSelect),
		widget.NewFormItem("音声タイプ / Giọng", a.voiceSelect),
		widget.NewFormItem("音声形式 / Định dạng", a.formatSelect),
	)

	actions := container.NewHBox(a.translateButton, a.openButton, a.saveButton, a.resetButton)

	main := container.NewVBox(
		a.modeRadio,
		settings,
		widget.NewLabel("テキスト入力 / Nhập văn bản"),
		a.input,
		actions,
		a.transcriptLabel,
		widget.NewLabel("翻訳結果 / Kết quả"),
		a.output,
		a.readingLabel,
		a.audioPlayer,
	)

	tabs := container.NewAppTabs(
		container.NewTabItem("会話 / Hội thoại", a.history),
		container.NewTabItem("Log", a.logViewer),
	)

	content := container.NewBorder(nil, a.statusLabel, nil, nil,
		container.NewVSplit(container.NewVScroll(main), tabs))

	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))
	a.setupTooltips()
	a.setupKeyboardShortcuts()

	a.modeRadio.SetSelected(string(ModeText))

	a.window.SetOnClosed(func() {
		a.cancel()
		a.audioPlayer.Clear()
	})
}

func (a *Application) setupTooltips() {
	a.translateButton.SetToolTip("Translate (Ctrl+Enter)")
	a.openButton.SetToolTip("Translate a recorded audio file")
	a.saveButton.SetToolTip("Save audio (Ctrl+S)")
	a.resetButton.SetToolTip("Clear conversation history")
}

func (a *Application) setupKeyboardShortcuts() {
	canvas := a.window.Canvas()
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyP, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		a.audioPlayer.Play()
	})
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		a.onSaveAudio()
	})
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		a.onOpenRecording()
	})
}

// Run starts the GUI application
func (a *Application) Run() {
	a.window.ShowAndRun()
}

func (a *Application) onModeChanged(m Mode) {
	if m == "" {
		return
	}
	a.mu.Lock()
	a.mode = m
	a.mu.Unlock()

	textMode := m == ModeText
	if textMode {
		a.input.Enable()
		a.translateButton.Show()
		a.openButton.Hide()
	} else {
		a.input.Disable()
		a.translateButton.Hide()
		a.openButton.Show()
	}
	if m == ModeConversation {
		a.resetButton.Show()
		a.sourceSelect.Disable()
		a.targetSelect.Disable()
	} else {
		a.resetButton.Hide()
		a.sourceSelect.Enable()
		a.targetSelect.Enable()
	}
	a.transcriptLabel.SetText("")
}

func (a *Application) onTargetChanged(dst string) {
	// Swap the example text, but never overwrite what the user typed
	for _, lang := range TargetChoices {
		if a.input.Text == ExampleText(langdetect.Lang(lang)) {
			a.input.SetText(ExampleText(langdetect.Lang(dst)))
			return
		}
	}
}

func (a *Application) onSpeechChanged() {
	if a.engine == nil || a.voiceSelect == nil || a.formatSelect == nil {
		return
	}
	a.engine.SetSpeech(a.voiceSelect.Selected, a.formatSelect.Selected)
}

func (a *Application) languages() (langdetect.Lang, langdetect.Lang) {
	return langdetect.Lang(a.sourceSelect.Selected), langdetect.Lang(a.targetSelect.Selected)
}

func (a *Application) onTranslate() {
	if a.currentMode() != ModeText {
		return
	}
	text := a.input.Text
	if strings.TrimSpace(text) == "" {
		dialog.ShowInformation("vjtalk", "テキストを入力してください / Vui lòng nhập văn bản", a.window)
		return
	}
	src, dst := a.languages()
	a.run("翻訳中... / Đang dịch...", func(ctx context.Context) (processor.Outcome, error) {
		return a.engine.TranslateText(ctx, text, src, dst)
	})
}

func (a *Application) onOpenRecording() {
	mode := a.currentMode()
	if mode == ModeText {
		return
	}

	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			a.showError(err)
			return
		}
		if reader == nil {
			return // cancelled
		}
		defer reader.Close()

		data, err := io.ReadAll(reader)
		if err != nil {
			a.showError(fmt.Errorf("failed to read recording: %w", err))
			return
		}
		a.logger.Infow("loaded recording", "file", reader.URI().Name(), "bytes", len(data))

		src, dst := a.languages()
		a.run("テキスト化中... / Đang nhận dạng...", func(ctx context.Context) (processor.Outcome, error) {
			if mode == ModeConversation {
				return a.engine.ConversationTurn(ctx, a.session, data)
			}
			return a.engine.VoiceInput(ctx, data, src, dst)
		})
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter(RecordingExtensions))
	d.Show()
}

func (a *Application) onSaveAudio() {
	clip := a.audioPlayer.Clip()
	if clip.Empty() {
		return
	}

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			a.showError(err)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		if _, err := writer.Write(clip.Data); err != nil {
			a.showError(fmt.Errorf("failed to save audio: %w", err))
			return
		}
		a.updateStatus("Saved " + writer.URI().Name())
	}, a.window)
	d.SetFileName(internal.ClipFileName(a.output.Text, clip.Format))
	d.Show()
}

func (a *Application) onResetConversation() {
	a.session.Reset()
	a.history.Show(a.session)
	a.updateStatus("Conversation cleared")
}

func (a *Application) currentMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// run executes one interaction off the UI goroutine. A second interaction is
// refused while one is in flight.
func (a *Application) run(progress string, fn func(ctx context.Context) (processor.Outcome, error)) {
	if a.engine == nil {
		a.showError(errors.New("no translation engine configured"))
		return
	}

	a.mu.Lock()
	if a.busy {
		a.mu.Unlock()
		return
	}
	a.busy = true
	a.mu.Unlock()

	a.setUIEnabled(false)
	a.updateStatus(progress)

	go func() {
		out, err := fn(a.ctx)
		fyne.Do(func() {
			a.mu.Lock()
			a.busy = false
			a.mu.Unlock()
			a.setUIEnabled(true)
			a.apply(out, err)
		})
	}()
}

func (a *Application) apply(out processor.Outcome, err error) {
	if err != nil {
		if errors.Is(err, processor.ErrEmptyInput) {
			a.updateStatus("音声が認識できません / Không nhận dạng được giọng nói")
			return
		}
		a.showError(err)
		return
	}

	if a.currentMode() != ModeText {
		a.transcriptLabel.SetText(fmt.Sprintf("文字起こし / Văn bản (%s): %s", out.Source, out.SourceText))
	}
	a.output.SetText(out.Display())
	a.readingLabel.SetText(out.Reading)

	if err := a.audioPlayer.SetClip(out.Clip, a.voiceSelect.Selected); err != nil {
		a.logger.Warnw("cannot load audio", "error", err)
	}
	if out.Clip.Empty() {
		a.saveButton.Disable()
	} else {
		a.saveButton.Enable()
		if a.config.AutoPlay {
			a.audioPlayer.Play()
		}
	}

	if out.Turn != nil {
		a.history.Show(a.session)
	}
	a.updateStatus(ResultStatus(out))
}

func (a *Application) setUIEnabled(enabled bool) {
	buttons := []*ttwidget.Button{a.translateButton, a.openButton, a.resetButton}
	for _, b := range buttons {
		if enabled {
			b.Enable()
		} else {
			b.Disable()
		}
	}
}

func (a *Application) updateStatus(message string) {
	a.statusLabel.SetText(message)
}

func (a *Application) showError(err error) {
	dialog.ShowError(err, a.window)
	a.updateStatus("Error: " + err.Error())
}

// voiceOptions returns the window's voices plus current when it is another
// voice the speech service accepts.
func voiceOptions(current string) []string {
	opts := append([]string(nil), VoiceChoices...)
	for _, v := range opts {
		if v == current {
			return opts
		}
	}
	for _, v := range audio.Voices {
		if v == current {
			return append(opts, current)
		}
	}
	return opts
}
