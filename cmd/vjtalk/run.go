package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"codeberg.org/snonux/vjtalk/internal"
	"codeberg.org/snonux/vjtalk/internal/audio"
	"codeberg.org/snonux/vjtalk/internal/cli"
	"codeberg.org/snonux/vjtalk/internal/gui"
	"codeberg.org/snonux/vjtalk/internal/langdetect"
	"codeberg.org/snonux/vjtalk/internal/models"
	"codeberg.org/snonux/vjtalk/internal/processor"
	"codeberg.org/snonux/vjtalk/internal/session"
)

// runner holds what the command handlers share.
type runner struct {
	flags   *cli.Flags
	creds   *cli.Credentials
	warning string
	logger  *zap.SugaredLogger
}

func (r *runner) newProcessor(logger *zap.SugaredLogger) (*processor.Processor, error) {
	if r.warning != "" {
		fmt.Fprintln(os.Stderr, r.warning)
	}
	return processor.NewProcessor(r.flags, r.creds, logger)
}

func (r *runner) runGUI(cmd *cobra.Command, args []string) error {
	src, dst, err := cli.Languages()
	if err != nil {
		return err
	}

	app := gui.New(&gui.Config{
		Source:   src,
		Target:   dst,
		Voice:    viper.GetString("audio.voice"),
		Format:   viper.GetString("audio.format"),
		AutoPlay: !viper.GetBool("display.no_auto_play"),
		Warning:  r.warning,
	}, r.logger)

	proc, err := processor.NewProcessor(r.flags, r.creds, app.Logger())
	if err != nil {
		return err
	}
	app.SetEngine(proc)
	app.Run()
	return nil
}

func (r *runner) runTranslate(cmd *cobra.Command, args []string) error {
	src, dst, err := cli.Languages()
	if err != nil {
		return err
	}
	proc, err := r.newProcessor(r.logger)
	if err != nil {
		return err
	}

	if r.flags.BatchFile != "" {
		if len(args) > 0 {
			return fmt.Errorf("text arguments cannot be combined with --batch")
		}
		return proc.ProcessBatch(cmd.Context(), r.flags.BatchFile, src, dst, cmd.OutOrStdout())
	}

	text, err := inputText(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	out, err := proc.TranslateText(cmd.Context(), text, src, dst)
	if err != nil {
		return err
	}
	return r.report(cmd.OutOrStdout(), out, r.flags.OutputFile)
}

func (r *runner) runVoice(cmd *cobra.Command, args []string) error {
	src, dst, err := cli.Languages()
	if err != nil {
		return err
	}
	recording, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read recording: %w", err)
	}
	proc, err := r.newProcessor(r.logger)
	if err != nil {
		return err
	}

	out, err := proc.VoiceInput(cmd.Context(), recording, src, dst)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Transcript (%s): %s\n", out.Source, out.SourceText)
	return r.report(cmd.OutOrStdout(), out, r.flags.OutputFile)
}

func (r *runner) runConverse(cmd *cobra.Command, args []string) error {
	proc, err := r.newProcessor(r.logger)
	if err != nil {
		return err
	}

	sess := session.New()
	r.logger.Debugw("conversation started", "session", sess.ID)
	w := cmd.OutOrStdout()

	for i, file := range args {
		recording, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read recording: %w", err)
		}
		out, err := proc.ConversationTurn(cmd.Context(), sess, recording)
		if err != nil {
			// A failed turn is reported; the conversation goes on
			fmt.Fprintf(os.Stderr, "%s: %v\n", file, err)
			continue
		}

		fmt.Fprintln(w, gui.TurnTitle(*out.Turn))
		fmt.Fprintln(w, gui.TurnBody(*out.Turn))
		if err := r.saveClip(w, out, numberedPath(r.flags.OutputFile, i+1)); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return nil
}

func (r *runner) runSpeak(cmd *cobra.Command, args []string) error {
	proc, err := r.newProcessor(r.logger)
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	clip, err := proc.Speak(cmd.Context(), text)
	if err != nil {
		return err
	}
	if clip.Empty() {
		return processor.ErrEmptyInput
	}

	path := r.flags.OutputFile
	if path == "" {
		path = internal.ClipFileName(text, clip.Format)
	}
	return writeClip(cmd.OutOrStdout(), clip, path)
}

func (r *runner) runDetect(cmd *cobra.Command, args []string) error {
	return detectText(cmd.OutOrStdout(), args, cmd.InOrStdin())
}

// detectText prints the language of the args, or of stdin without args.
func detectText(w io.Writer, args []string, stdin io.Reader) error {
	text, err := inputText(args, stdin)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return processor.ErrEmptyInput
	}
	fmt.Fprintln(w, langdetect.Detect(text))
	return nil
}

func (r *runner) runListModels(cmd *cobra.Command, args []string) error {
	lister := models.NewLister(r.creds.OpenAIKey, r.creds.OpenAIBaseURL)
	ctx, cancel := context.WithTimeout(cmd.Context(), r.timeout())
	defer cancel()
	return lister.ListAvailableModels(ctx, cmd.OutOrStdout())
}

// timeout is the per-call deadline; the config file may override the flag default.
func (r *runner) timeout() time.Duration {
	if viper.IsSet("timeout") {
		if d := viper.GetDuration("timeout"); d > 0 {
			return d
		}
	}
	return r.flags.Timeout
}

// report prints a translation and saves its audio when path is set.
func (r *runner) report(w io.Writer, out processor.Outcome, path string) error {
	if out.Failed() {
		fmt.Fprintln(os.Stderr, out.Display())
	} else {
		fmt.Fprintf(w, "Translation (%s): %s\n", out.Target, out.Display())
	}
	if out.Reading != "" {
		fmt.Fprintf(w, "Reading: %s\n", out.Reading)
	}
	return r.saveClip(w, out, path)
}

func (r *runner) saveClip(w io.Writer, out processor.Outcome, path string) error {
	if out.SpeechErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: no audio: %v\n", out.SpeechErr)
		return nil
	}
	if path == "" || out.Clip.Empty() {
		return nil
	}
	return writeClip(w, out.Clip, path)
}

func writeClip(w io.Writer, clip audio.Clip, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, clip.Data, 0644); err != nil {
		return fmt.Errorf("failed to write audio: %w", err)
	}
	fmt.Fprintf(w, "Audio (%s) saved to: %s\n", clip.MIME, path)
	return nil
}

// inputText joins args, or reads stdin when there are none.
func inputText(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// numberedPath turns out.mp3 into out-2.mp3 for turn 2. Empty stays empty.
func numberedPath(path string, n int) string {
	if path == "" {
		return ""
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(path, ext), n, ext)
}
