package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Groups holds model IDs sorted into the kinds vjtalk uses.
type Groups struct {
	Speech        []string // text-to-speech
	Transcription []string // speech-to-text
	Chat          []string // translation
}

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister. baseURL may be empty.
func NewLister(apiKey, baseURL string) *Lister {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
	}
}

// Categorize sorts model IDs into groups. IDs that fit none are dropped.
func Categorize(ids []string) Groups {
	var g Groups
	for _, id := range ids {
		switch {
		case strings.Contains(id, "transcribe") || strings.Contains(id, "whisper"):
			g.Transcription = append(g.Transcription, id)
		case strings.Contains(id, "tts"):
			g.Speech = append(g.Speech, id)
		case strings.Contains(id, "gpt") || strings.Contains(id, "chat"):
			g.Chat = append(g.Chat, id)
		}
	}
	sort.Strings(g.Speech)
	sort.Strings(g.Transcription)
	sort.Strings(g.Chat)
	return g
}

// ListAvailableModels writes the account's models to w, categorized by type
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	if l.apiKey == "" {
		return fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .vjtalk.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(models.Models))
	for _, model := range models.Models {
		ids = append(ids, model.ID)
	}
	g := Categorize(ids)

	fmt.Fprintln(w, "Available OpenAI Models:")
	printGroup(w, "Text-to-Speech (TTS) Models", g.Speech)
	printGroup(w, "Speech-to-Text Models", g.Transcription)

	fmt.Fprintln(w, "\nChat/Translation Models (for Vietnamese ⇄ Japanese):")
	if len(g.Chat) > 10 {
		// Show only relevant models
		relevant := []string{}
		for _, model := range g.Chat {
			if strings.Contains(model, "gpt-4") {
				relevant = append(relevant, model)
			}
		}
		for _, model := range relevant {
			fmt.Fprintf(w, "  %s\n", model)
		}
		fmt.Fprintf(w, "  ... and %d more models\n", len(g.Chat)-len(relevant))
	} else {
		for _, model := range g.Chat {
			fmt.Fprintf(w, "  %s\n", model)
		}
	}

	return nil
}

func printGroup(w io.Writer, title string, ids []string) {
	fmt.Fprintf(w, "\n%s:\n", title)
	if len(ids) == 0 {
		fmt.Fprintln(w, "  none found")
		return
	}
	for _, id := range ids {
		fmt.Fprintf(w, "  %s\n", id)
	}
}
