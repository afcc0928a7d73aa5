package srs

// Review guidance copy, shown to the user alongside each scheduling result.

const recommendFail = "회상이 어려웠습니다. 궁전을 처음부터 천천히 다시 걸어보세요. 이미지를 더 생생하게 만들어 봅시다."

var recommendGraduation = [...]string{
	"첫 복습! 궁전을 걸으며 각 지점의 이미지를 선명하게 떠올려 보세요.",
	"3일차 복습입니다. 이미지가 흐려지기 전에 궁전을 방문하세요.",
	"일주일차! 궁전 속 이야기를 처음부터 끝까지 떠올려 보세요.",
	"2주차입니다. 이제 궁전 없이 구절을 떠올려 보세요.",
	"한 달차! 장기 기억으로 자리잡고 있습니다. 필사도 해보세요.",
}

const recommendMatureFormat = "%d일 후 복습합니다. 이 구절은 거의 완벽하게 기억되고 있습니다!"

const (
	recommendMarginalSuffix = " (힌트: 이미지를 더 과장되게 만들면 기억에 도움이 됩니다)"
	recommendPerfectSuffix  = " 완벽합니다! 🎉"
)

// fallbackRecommendation pads a preview schedule whose recommendation list
// is shorter than its interval list.
const fallbackRecommendation = "꾸준히 복습하세요!"
