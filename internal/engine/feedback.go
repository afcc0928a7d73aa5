package engine

import (
	"fmt"
	"strings"
)

const feedbackEmptyAttempt = "텍스트가 입력되지 않았습니다. 궁전의 첫 번째 장소부터 떠올려 보세요."

// composeFeedback builds the user-facing message: a score-tier line, segment
// stats in parentheses, and missing-keyword guidance. At most five missing
// keywords are listed in full; beyond that the first three are shown with a
// remainder count.
func composeFeedback(score float64, matched, total, partial int, missing []string) string {
	var parts []string

	switch {
	case score >= 0.95:
		parts = append(parts, "완벽에 가까운 암송입니다! 놀랍습니다.")
	case score >= 0.8:
		parts = append(parts, "아주 잘 기억하고 있습니다! 거의 완벽합니다.")
	case score >= 0.6:
		parts = append(parts, "좋은 시도입니다! 대부분 기억하고 있지만 몇 부분을 더 연습하면 좋겠습니다.")
	case score >= 0.4:
		parts = append(parts, "절반 정도 기억하고 있습니다. 궁전을 다시 천천히 걸어보세요.")
	case score >= 0.2:
		parts = append(parts, "아직 많은 부분이 빠져 있습니다. 궁전 이미지를 더 생생하게 떠올려 봅시다.")
	default:
		parts = append(parts, "처음부터 다시 궁전을 걸어보는 것을 추천합니다. 각 이미지를 선명하게 만들어 보세요.")
	}

	if partial > 0 {
		parts = append(parts, fmt.Sprintf("(%d개 구절 중 %d개 일치, %d개 부분 일치)", total, matched, partial))
	} else {
		parts = append(parts, fmt.Sprintf("(%d개 구절 중 %d개 일치)", total, matched))
	}

	switch {
	case len(missing) > 5:
		quoted := quoteKeywords(missing[:3])
		parts = append(parts, fmt.Sprintf("놓친 키워드: %s 외 %d개", quoted, len(missing)-3))
		parts = append(parts, "궁전을 처음부터 천천히 다시 걸으며 각 이미지를 확인해 보세요.")
	case len(missing) > 0:
		parts = append(parts, fmt.Sprintf("놓친 키워드: %s", quoteKeywords(missing)))
		parts = append(parts, "이 키워드들의 이미지를 더 강렬하게 만들어 보세요.")
	}

	return strings.Join(parts, " ")
}

func quoteKeywords(keywords []string) string {
	quoted := make([]string, len(keywords))
	for i, k := range keywords {
		quoted[i] = `"` + k + `"`
	}
	return strings.Join(quoted, ", ")
}
