package textmatch

import (
	"strings"
)

// clauseMarkers are the conjunctions and discourse particles that open a new
// clause in Korean scripture text. Markers of two or more runes split on a
// word-prefix match so that particle-suffixed forms ("너희는", "그러나도")
// still trigger a boundary; single-rune markers ("주", "그", "이") would
// over-split on that rule, so they require an exact word match.
var clauseMarkers = []string{
	"그러나", "그러므로", "또한", "그리고", "이는", "곧",
	"너희", "나는", "내가",
	"주", "그", "이",
}

// isClauseBoundary reports whether word opens a new clause.
func isClauseBoundary(word string) bool {
	for _, m := range clauseMarkers {
		if word == m {
			return true
		}
		if len([]rune(m)) >= 2 && strings.HasPrefix(word, m) {
			return true
		}
	}
	return false
}

// sentence punctuation that ends a clause when followed by whitespace or the
// end of the text.
func isSentenceBreak(r rune) bool {
	switch r {
	case '.', ',', ';', '!', '?', '。', '！', '？':
		return true
	}
	return false
}

// Segment splits a passage into clause-sized units: first on sentence
// punctuation, then before clause-opening markers. Results are trimmed and
// never empty; order is preserved and the marker stays at the head of its
// segment, so segments concatenate back to the passage minus separators.
// A passage with no boundaries yields exactly one segment; an empty or
// whitespace-only passage yields none.
func Segment(text string) []string {
	var segments []string

	for _, sentence := range splitSentences(text) {
		words := strings.Fields(sentence)
		if len(words) == 0 {
			continue
		}

		var current []string
		for _, w := range words {
			if len(current) > 0 && isClauseBoundary(w) {
				segments = append(segments, strings.Join(current, " "))
				current = current[:0]
			}
			current = append(current, w)
		}
		if len(current) > 0 {
			segments = append(segments, strings.Join(current, " "))
		}
	}

	return segments
}

// splitSentences breaks text at sentence punctuation followed by whitespace
// or end-of-text. The punctuation itself is dropped.
func splitSentences(text string) []string {
	var parts []string
	var b strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		if isSentenceBreak(r) {
			atEnd := i == len(runes)-1
			followedBySpace := !atEnd && isSpace(runes[i+1])
			if atEnd || followedBySpace {
				if s := strings.TrimSpace(b.String()); s != "" {
					parts = append(parts, s)
				}
				b.Reset()
				continue
			}
		}
		b.WriteRune(r)
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		parts = append(parts, s)
	}
	return parts
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '　'
}
