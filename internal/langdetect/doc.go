// Package langdetect decides whether a piece of text is Vietnamese or
// Japanese. Detection runs an ordered chain of strategies: a script-range
// check for kana and CJK ideographs, a statistical identifier, and finally an
// ASCII heuristic that always produces an answer.
package langdetect
