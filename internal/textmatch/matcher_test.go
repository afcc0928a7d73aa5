package textmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchSegmentExact(t *testing.T) {
	p := DefaultParams()
	m := MatchSegment("나는 포도나무요", "나는 포도나무요", p)
	assert.True(t, m.Matched)
	assert.False(t, m.Partial)
	assert.Equal(t, 1.0, m.Similarity)
}

func TestMatchSegmentEmptySegment(t *testing.T) {
	p := DefaultParams()
	m := MatchSegment("", "whatever", p)
	assert.True(t, m.Matched)
	assert.Equal(t, 1.0, m.Similarity)

	// Punctuation-only segments normalize to empty and count as matched.
	m = MatchSegment("...", "whatever", p)
	assert.True(t, m.Matched)
}

func TestMatchSegmentTypoTolerance(t *testing.T) {
	p := DefaultParams()
	// One differing rune in a short clause stays well above the threshold.
	m := MatchSegment("너희는 가지라", "너희는 가지다", p)
	assert.True(t, m.Matched)
	assert.Greater(t, m.Similarity, 0.8)
}

func TestMatchSegmentInsideLongerAttempt(t *testing.T) {
	p := DefaultParams()
	// The clause sits mid-attempt; whole-string similarity alone would fail,
	// the sliding window must find it.
	attempt := "음 그러니까 나는 포도나무요 라고 하셨던 것 같아요"
	m := MatchSegment("나는 포도나무요", attempt, p)
	assert.True(t, m.Matched)
}

func TestMatchSegmentUnrelated(t *testing.T) {
	p := DefaultParams()
	m := MatchSegment("나는 포도나무요", "전혀 상관없는 소리", p)
	assert.False(t, m.Matched)
	assert.False(t, m.Partial)
}

func TestMatchSegmentEmptyAttempt(t *testing.T) {
	p := DefaultParams()
	m := MatchSegment("나는 포도나무요", "", p)
	assert.False(t, m.Matched)
	assert.False(t, m.Partial)
	assert.Equal(t, 0.0, m.Similarity)
}

func TestMatchSegmentPartialBand(t *testing.T) {
	p := DefaultParams()
	// Rough half-overlap lands between the partial and match thresholds.
	m := MatchSegment("선한 목자는 양들을 위하여 목숨을 버리거니와", "선한 목자는 목숨을", p)
	if !m.Matched {
		assert.True(t, m.Partial || m.Similarity < p.PartialThreshold)
	}
}
