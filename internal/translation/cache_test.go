package translation

import (
	"testing"

	"codeberg.org/snonux/vjtalk/internal/langdetect"
)

func TestTranslationCache(t *testing.T) {
	cache := NewTranslationCache()
	vi, ja := langdetect.Vietnamese, langdetect.Japanese

	if _, found := cache.Get(vi, ja, "Xin chao"); found {
		t.Error("Expected not found in empty cache")
	}

	cache.Add(vi, ja, "Xin chao", "こんにちは")
	cache.Add(ja, vi, "ありがとう", "Cảm ơn")

	if got, found := cache.Get(vi, ja, "Xin chao"); !found || got != "こんにちは" {
		t.Errorf("Get(vi, ja) = %q, %v", got, found)
	}

	// The language pair is part of the key.
	if _, found := cache.Get(ja, vi, "Xin chao"); found {
		t.Error("Expected miss for a different language pair")
	}

	cache.Add(vi, ja, "Xin chao", "やあ")
	if got, _ := cache.Get(vi, ja, "Xin chao"); got != "やあ" {
		t.Errorf("Expected overwrite, got %q", got)
	}

	if cache.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cache.Len())
	}
}
