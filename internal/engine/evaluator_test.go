package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/versewalk/versewalk/internal/textmatch"
)

func TestEvaluateNearPerfectRecall(t *testing.T) {
	// One-rune slip at the very end of a two-clause verse.
	reference := "나는 포도나무요 너희는 가지라"
	attempt := "나는 포도나무요 너희는 가지다"

	eval := Evaluate(reference, attempt, nil, textmatch.DefaultParams())

	require.Len(t, eval.MatchedSegments, 2)
	assert.True(t, eval.MatchedSegments[0])
	assert.True(t, eval.MatchedSegments[1])
	assert.GreaterOrEqual(t, eval.Score, 0.9)
	assert.Equal(t, 5, eval.Quality)
	assert.Contains(t, eval.Feedback, "완벽에 가까운")
	assert.Equal(t, 2, eval.Details.MatchedCount)
	assert.Equal(t, 0, eval.Details.PartialMatches)
}

func TestEvaluateExactRecall(t *testing.T) {
	reference := "나는 포도나무요 너희는 가지라"
	eval := Evaluate(reference, reference, nil, textmatch.DefaultParams())

	assert.Equal(t, 1.0, eval.Score)
	assert.Equal(t, 5, eval.Quality)
}

func TestEvaluateEmptyAttempt(t *testing.T) {
	reference := "나는 포도나무요 너희는 가지라"
	keywords := []string{"포도나무", "가지"}

	for _, attempt := range []string{"", "   ", "...!"} {
		eval := Evaluate(reference, attempt, keywords, textmatch.DefaultParams())
		assert.Equal(t, 0.0, eval.Score, "attempt %q", attempt)
		assert.Equal(t, 0, eval.Quality)
		assert.Equal(t, keywords, eval.MissingKeywords)
		assert.Equal(t, feedbackEmptyAttempt, eval.Feedback)
		assert.Len(t, eval.MatchedSegments, 2)
		for _, m := range eval.MatchedSegments {
			assert.False(t, m)
		}
	}
}

func TestEvaluateUnrelatedAttempt(t *testing.T) {
	eval := Evaluate("나는 포도나무요 너희는 가지라", "오늘 날씨가 참 좋네요", nil, textmatch.DefaultParams())

	assert.Less(t, eval.Score, 0.2)
	assert.LessOrEqual(t, eval.Quality, 1)
	assert.Contains(t, eval.Feedback, "처음부터")
}

func TestEvaluateKeywordDiagnostics(t *testing.T) {
	reference := "선한 목자는 양들을 위하여 목숨을 버리거니와"
	keywords := []string{"목자", "양들", "목숨"}

	// Attempt mentions the shepherd and the life but not the sheep.
	eval := Evaluate(reference, "선한 목자는 목숨을 버린다", keywords, textmatch.DefaultParams())
	assert.Equal(t, []string{"양들"}, eval.MissingKeywords)
	assert.Contains(t, eval.Feedback, `"양들"`)

	// All keywords present: no missing list, no keyword guidance.
	eval = Evaluate(reference, reference, keywords, textmatch.DefaultParams())
	assert.Empty(t, eval.MissingKeywords)
	assert.NotContains(t, eval.Feedback, "놓친 키워드")
}

func TestEvaluateKeywordTypoTolerance(t *testing.T) {
	// A keyword recalled with a small typo still counts as present.
	eval := Evaluate("나는 포도나무요", "나는 포도나무요", []string{"포도나무"}, textmatch.DefaultParams())
	assert.Empty(t, eval.MissingKeywords)

	eval = Evaluate("나는 포도나무요 너희는 가지라", "나는 포도나문요 너희는 가지라", []string{"포도나무요"}, textmatch.DefaultParams())
	assert.Empty(t, eval.MissingKeywords)
}

func TestComposeFeedbackTiers(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0.97, "완벽에 가까운"},
		{0.85, "거의 완벽합니다"},
		{0.65, "좋은 시도입니다"},
		{0.45, "절반 정도"},
		{0.25, "더 생생하게"},
		{0.05, "처음부터"},
	}
	for _, tc := range cases {
		got := composeFeedback(tc.score, 1, 2, 0, nil)
		assert.Contains(t, got, tc.want, "score %v", tc.score)
	}
}

func TestComposeFeedbackSegmentCounts(t *testing.T) {
	got := composeFeedback(0.7, 3, 5, 0, nil)
	assert.Contains(t, got, "(5개 구절 중 3개 일치)")

	got = composeFeedback(0.7, 3, 5, 1, nil)
	assert.Contains(t, got, "(5개 구절 중 3개 일치, 1개 부분 일치)")
}

func TestComposeFeedbackMissingKeywordTruncation(t *testing.T) {
	missing := make([]string, 7)
	for i := range missing {
		missing[i] = fmt.Sprintf("키워드%d", i+1)
	}

	got := composeFeedback(0.5, 1, 3, 0, missing)
	assert.Contains(t, got, `"키워드1", "키워드2", "키워드3" 외 4개`)
	assert.NotContains(t, got, "키워드4")

	// Five or fewer are listed in full.
	got = composeFeedback(0.5, 1, 3, 0, missing[:4])
	assert.Contains(t, got, `"키워드4"`)
	assert.NotContains(t, got, "외")
}

func TestEvaluateScoreRounding(t *testing.T) {
	eval := Evaluate("나는 포도나무요 너희는 가지라", "나는 포도나무요 너희는 가지다", nil, textmatch.DefaultParams())
	assert.Equal(t, eval.Score, float64(int(eval.Score*100+0.5))/100, "score rounded to 2 decimals")
	assert.GreaterOrEqual(t, eval.Score, 0.0)
	assert.LessOrEqual(t, eval.Score, 1.0)
}
