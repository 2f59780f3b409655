// Package processor contains the core logic of one interaction: it
// transcribes recorded speech, routes the text to the translation backend,
// synthesizes the translation and, in conversation mode, records the turn.
// It also drives batch translation of phrase files. This package
// serves as the main coordinator between all other components.
package processor
