package processor

import (
	"context"
	"fmt"
	"io"
	"os"

	"codeberg.org/snonux/vjtalk/internal/batch"
	"codeberg.org/snonux/vjtalk/internal/langdetect"
)

// ProcessBatch translates every line of a batch file into dst and writes
// "source = translation" lines to w. Lines without a language prefix use
// src. Repeated lines are translated once. Failed lines are written with
// their error message and counted; the run continues past them.
func (p *Processor) ProcessBatch(ctx context.Context, filename string, src, dst langdetect.Lang, w io.Writer) error {
	if !dst.IsConcrete() {
		return fmt.Errorf("%w: target %q", langdetect.ErrUnsupportedLanguage, dst)
	}

	entries, err := batch.ReadBatchFile(filename)
	if err != nil {
		return err
	}

	// Track statistics
	translatedCount := 0
	cachedCount := 0
	errorCount := 0

	for _, entry := range entries {
		if !entry.NeedsTranslation() {
			from := p.router.ResolveSource(entry.Text, sourceFor(entry, src))
			p.translationCache.Add(from, dst, entry.Text, entry.Translation)
			fmt.Fprintf(w, "%s = %s\n", entry.Text, entry.Translation)
			continue
		}

		from := p.router.ResolveSource(entry.Text, sourceFor(entry, src))
		if cached, ok := p.translationCache.Get(from, dst, entry.Text); ok {
			fmt.Fprintf(w, "%s = %s\n", entry.Text, cached)
			cachedCount++
			continue
		}

		res := p.translate(ctx, entry.Text, from, dst)
		if res.Failed() {
			fmt.Fprintf(os.Stderr, "Error translating line %d '%s': %v\n", entry.Line, entry.Text, res.Err)
			errorCount++
		} else {
			p.translationCache.Add(from, dst, entry.Text, res.Text)
			translatedCount++
		}
		fmt.Fprintf(w, "%s = %s\n", entry.Text, res.Display())
	}

	p.logger.Infow("batch finished", "file", filename, "lines", len(entries),
		"translated", translatedCount, "cached", cachedCount, "errors", errorCount)

	if errorCount > 0 {
		return fmt.Errorf("%d of %d lines failed to translate", errorCount, len(entries))
	}
	return nil
}

func sourceFor(entry batch.Entry, fallback langdetect.Lang) langdetect.Lang {
	if entry.Lang.IsConcrete() {
		return entry.Lang
	}
	return fallback
}
