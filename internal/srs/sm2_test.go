package srs

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 15, 4, 5, 0, time.UTC)

func TestNextReviewFailResets(t *testing.T) {
	for _, quality := range []int{0, 1, 2} {
		states := []State{
			NewState(),
			{Repetition: 4, EaseFactor: 2.5, IntervalDays: 14},
			{Repetition: 9, EaseFactor: 1.3, IntervalDays: 120},
		}
		for _, s := range states {
			r := NextReview(quality, s, testNow)
			assert.Equal(t, 0, r.Repetition, "quality %d from %+v", quality, s)
			assert.Equal(t, 1, r.IntervalDays, "quality %d from %+v", quality, s)
			assert.Contains(t, r.Recommendation, "처음부터")
		}
	}
}

func TestNextReviewEaseFloor(t *testing.T) {
	s := NewState()
	for i := 0; i < 20; i++ {
		r := NextReview(0, s, testNow)
		assert.GreaterOrEqual(t, r.EaseFactor, MinEaseFactor)
		s = r.NextState()
	}
	assert.Equal(t, MinEaseFactor, s.EaseFactor)
}

func TestNextReviewGraduatedIntervals(t *testing.T) {
	s := NewState()
	want := []int{1, 3, 7, 14, 30}

	for i, wantInterval := range want {
		r := NextReview(5, s, testNow)
		assert.Equal(t, i+1, r.Repetition)
		assert.Equal(t, wantInterval, r.IntervalDays, "repetition %d", i+1)
		s = r.NextState()
	}
}

func TestNextReviewExponentialRegime(t *testing.T) {
	s := NewState()
	for i := 0; i < 5; i++ {
		s = NextReview(5, s, testNow).NextState()
	}
	require.Equal(t, 5, s.Repetition)
	require.Equal(t, 30, s.IntervalDays)

	// The 6th pass multiplies the previous interval by the updated ease.
	r := NextReview(5, s, testNow)
	assert.Equal(t, 6, r.Repetition)

	wantEase := math.Round((s.EaseFactor+0.1)*100) / 100
	assert.Equal(t, wantEase, r.EaseFactor)
	assert.Equal(t, int(math.Round(30*wantEase)), r.IntervalDays)
}

func TestNextReviewEaseMovement(t *testing.T) {
	s := NewState()

	// Quality 5 raises ease by 0.1.
	r := NextReview(5, s, testNow)
	assert.InDelta(t, 2.6, r.EaseFactor, 1e-9)

	// Quality 4 leaves ease unchanged.
	r = NextReview(4, s, testNow)
	assert.InDelta(t, 2.5, r.EaseFactor, 1e-9)

	// Quality 3 lowers ease slightly.
	r = NextReview(3, s, testNow)
	assert.InDelta(t, 2.36, r.EaseFactor, 1e-9)
}

func TestNextReviewDueDate(t *testing.T) {
	s := State{Repetition: 1, EaseFactor: 2.5, IntervalDays: 1}
	r := NextReview(5, s, testNow)

	require.Equal(t, 3, r.IntervalDays)
	want := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, want, r.NextReviewAt, "due date has no time-of-day component")
}

func TestNextReviewRecommendations(t *testing.T) {
	s := NewState()

	r := NextReview(4, s, testNow)
	assert.Contains(t, r.Recommendation, "첫 복습")

	// Quality 3 appends the exaggeration hint.
	r = NextReview(3, s, testNow)
	assert.Contains(t, r.Recommendation, "과장되게")

	// Quality 5 appends the celebratory note.
	r = NextReview(5, s, testNow)
	assert.True(t, strings.HasSuffix(r.Recommendation, "🎉"))
}

func TestNextReviewClampsQuality(t *testing.T) {
	s := NewState()

	r := NextReview(9, s, testNow)
	assert.Equal(t, 1, r.Repetition, "clamped to 5, counts as pass")

	r = NextReview(-3, s, testNow)
	assert.Equal(t, 0, r.Repetition, "clamped to 0, counts as fail")
	assert.GreaterOrEqual(t, r.EaseFactor, MinEaseFactor)
}
