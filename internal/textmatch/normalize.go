// Package textmatch provides the text comparison primitives used to grade
// recitation attempts: normalization, character-level similarity, clause
// segmentation, and windowed segment matching.
//
// Everything in this package is pure and deterministic. Scripture text mixes
// Korean and multi-byte punctuation, so all comparisons operate on runes and
// on a character-level edit distance rather than word tokens.
package textmatch

import (
	"strings"
)

// punctuation covers ASCII marks plus the CJK brackets and curly quote
// variants that appear in Korean scripture editions.
var punctuation = map[rune]bool{
	'.': true, ',': true, ';': true, ':': true, '!': true, '?': true,
	'\'': true, '"': true, '(': true, ')': true, '[': true, ']': true,
	'{': true, '}': true, '—': true, '–': true, '-': true, '…': true,
	'·': true, '「': true, '」': true, '『': true, '』': true,
	'“': true, '”': true, '‘': true, '’': true,
	'。': true, '、': true, '！': true, '？': true,
}

// Normalize prepares text for comparison: strips punctuation, collapses
// whitespace runs to a single space, trims, and lowercases. Idempotent.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if punctuation[r] {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(strings.Join(strings.Fields(b.String()), " "))
}
