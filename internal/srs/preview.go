package srs

import (
	"time"

	"github.com/pkg/errors"
)

// Difficulty selects one of the fixed preview schedules generated when a
// passage is created.
type Difficulty string

const (
	Easy     Difficulty = "easy"
	Moderate Difficulty = "moderate"
	Hard     Difficulty = "hard"
)

// ParseDifficulty validates a difficulty string.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case Easy, Moderate, Hard:
		return Difficulty(s), nil
	}
	return "", errors.Errorf("unknown difficulty %q", s)
}

// DifficultyForSegments derives a tier from the clause count of a passage:
// short passages are easy, long ones hard.
func DifficultyForSegments(n int) Difficulty {
	switch {
	case n <= 2:
		return Easy
	case n <= 4:
		return Moderate
	default:
		return Hard
	}
}

// previewOffsets are day offsets from the start date, per tier. The hard
// tier touches day 1 twice on purpose: the hardest passages get an early
// double review.
var previewOffsets = map[Difficulty][]int{
	Easy:     {1, 3, 7, 14, 30, 60},
	Moderate: {1, 2, 5, 10, 20, 40},
	Hard:     {1, 1, 3, 5, 10, 20, 30},
}

var previewRecommendations = map[Difficulty][]string{
	Easy: {
		"궁전을 빠르게 걸어보세요",
		"이미지만 떠올려 보세요",
		"구절을 소리 내어 읽어보세요",
		"필사해 보세요",
		"다른 사람에게 설명해 보세요",
		"자연스럽게 떠오르면 성공! 🎉",
	},
	Moderate: {
		"궁전을 천천히 걸어보세요",
		"각 지점 이미지를 선명히 하세요",
		"이야기 연결을 다시 확인하세요",
		"힌트 없이 시도하세요",
		"필사와 함께 복습하세요",
		"완벽에 가까워지고 있습니다!",
	},
	Hard: {
		"궁전을 아주 천천히 걸으세요",
		"이미지를 더 강렬하게 만드세요",
		"3개씩 끊어 복습하세요",
		"이야기를 소리 내어 말하세요",
		"한 절씩 필사하세요",
		"점점 좋아지고 있습니다!",
		"장기 기억으로 전환 중입니다 🎉",
	},
}

// PreviewEntry is one planned review in a preview schedule.
type PreviewEntry struct {
	ReviewNumber   int
	Date           time.Time
	DaysAfterStart int
	Recommendation string
}

// BuildPreview generates the fixed forward schedule for a difficulty tier,
// independent of any live review state. If the tier's recommendation list is
// shorter than its offset list, the tail falls back to a generic message
// instead of failing.
func BuildPreview(tier Difficulty, start time.Time) []PreviewEntry {
	offsets, ok := previewOffsets[tier]
	if !ok {
		offsets = previewOffsets[Moderate]
		tier = Moderate
	}
	msgs := previewRecommendations[tier]

	startDay := dateOnly(start)
	entries := make([]PreviewEntry, len(offsets))
	for i, days := range offsets {
		msg := fallbackRecommendation
		if i < len(msgs) {
			msg = msgs[i]
		}
		entries[i] = PreviewEntry{
			ReviewNumber:   i + 1,
			Date:           startDay.AddDate(0, 0, days),
			DaysAfterStart: days,
			Recommendation: msg,
		}
	}
	return entries
}
