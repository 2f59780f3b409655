// Package translation routes Vietnamese/Japanese text to a chat-completion
// backend. The Router resolves "auto" sources with the language detector,
// skips the remote call when source and target match, and wraps the answer in
// a Result that makes failures explicit while still offering the in-band
// message the UI shows in place of a translation.
package translation
