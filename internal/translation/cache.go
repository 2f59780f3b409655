package translation

import (
	"sync"

	"codeberg.org/snonux/vjtalk/internal/langdetect"
)

// cacheKey identifies a translation by language pair and text.
type cacheKey struct {
	from, to langdetect.Lang
	text     string
}

// TranslationCache keeps successful translations in memory so a batch run
// translates repeated lines only once. It lives only as long as the run.
type TranslationCache struct {
	mu           sync.RWMutex
	translations map[cacheKey]string
}

// NewTranslationCache creates a new translation cache
func NewTranslationCache() *TranslationCache {
	return &TranslationCache{
		translations: make(map[cacheKey]string),
	}
}

// Add stores a translation
func (tc *TranslationCache) Add(from, to langdetect.Lang, text, translation string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.translations[cacheKey{from, to, text}] = translation
}

// Get retrieves a translation from the cache
func (tc *TranslationCache) Get(from, to langdetect.Lang, text string) (string, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	translation, ok := tc.translations[cacheKey{from, to, text}]
	return translation, ok
}

// Len returns the number of cached translations
func (tc *TranslationCache) Len() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.translations)
}
