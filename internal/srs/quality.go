package srs

import "math"

// ScoreToQuality converts a continuous session score in [0,1] to the SM-2
// quality scale 0-5. The score is clamped before rounding, so the function
// is total.
func ScoreToQuality(score float64) int {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return int(math.Round(score * 5))
}
