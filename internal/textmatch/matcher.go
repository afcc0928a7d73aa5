package textmatch

// MatcherParams holds the tunable constants of the segment matcher. The
// defaults come from product tuning, not from any derivation — treat them as
// knobs, not invariants.
type MatcherParams struct {
	// MatchThreshold is the similarity at or above which a segment counts
	// as fully recalled.
	MatchThreshold float64
	// PartialThreshold is the similarity at or above which a segment counts
	// as partially recalled.
	PartialThreshold float64
	// PartialCredit is the score contribution of a partial match. Weighted
	// below half because a partial hit signals recognizable but incomplete
	// recall.
	PartialCredit float64
	// SegmentWeight and OverallWeight blend the per-segment score with the
	// whole-text similarity.
	SegmentWeight float64
	OverallWeight float64
	// WindowSlack widens the sliding comparison window beyond the segment
	// length, in runes.
	WindowSlack int
}

// DefaultParams returns the tuned defaults.
func DefaultParams() MatcherParams {
	return MatcherParams{
		MatchThreshold:   0.65,
		PartialThreshold: 0.40,
		PartialCredit:    0.4,
		SegmentWeight:    0.7,
		OverallWeight:    0.3,
		WindowSlack:      10,
	}
}

// SegmentMatch is the outcome of matching one reference segment against an
// attempt.
type SegmentMatch struct {
	Matched    bool
	Partial    bool
	Similarity float64
}

// MatchSegment looks for a reference segment anywhere inside the attempt.
// It first compares the whole normalized attempt, then slides a window of
// roughly the segment's length across it keeping the best similarity. The
// window exists because a short clause may sit anywhere inside a longer
// free-form attempt; anchoring at the start would miss correct recall with
// extra leading text.
func MatchSegment(segment, attempt string, p MatcherParams) SegmentMatch {
	normSeg := []rune(Normalize(segment))
	normAtt := []rune(Normalize(attempt))

	if len(normSeg) == 0 {
		return SegmentMatch{Matched: true, Similarity: 1.0}
	}

	fullSim := Similarity(string(normSeg), string(normAtt))
	if fullSim >= p.MatchThreshold {
		return SegmentMatch{Matched: true, Similarity: fullSim}
	}

	// At each offset, compare against both a tight window (segment length)
	// and a slack window. The tight window is what lets a clause match
	// exactly when it sits at the head of a longer attempt; the slack window
	// tolerates insertions inside the recalled clause.
	segLen := len(normSeg)
	sizes := [2]int{segLen, segLen + p.WindowSlack}

	best := 0.0
	for start := 0; start < len(normAtt); start++ {
		for _, size := range sizes {
			end := start + size
			if end > len(normAtt) {
				end = len(normAtt)
			}
			sim := Similarity(string(normSeg), string(normAtt[start:end]))
			if sim > best {
				best = sim
			}
		}
		if best >= p.MatchThreshold {
			break
		}
	}

	return SegmentMatch{
		Matched:    best >= p.MatchThreshold,
		Partial:    best >= p.PartialThreshold && best < p.MatchThreshold,
		Similarity: best,
	}
}
