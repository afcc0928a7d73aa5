// Package engine grades recitation attempts and drives the review cycle:
// evaluate an attempt against its passage, feed the resulting quality into
// the scheduler, and persist both outcomes.
package engine

import (
	"math"
	"strings"

	"github.com/versewalk/versewalk/internal/srs"
	"github.com/versewalk/versewalk/internal/textmatch"
)

// keywordThreshold is the similarity at which a keyword counts as present
// despite typos.
const keywordThreshold = 0.7

// Evaluation is the result of grading one attempt. It is computed fresh per
// request and never persisted as-is; the caller stores the numbers it needs.
type Evaluation struct {
	Score           float64  // 0.0 - 1.0, rounded to 2 decimals
	Quality         int      // SM-2 quality 0-5
	MatchedSegments []bool   // one per reference clause
	MissingKeywords []string // provided keywords absent from the attempt
	Feedback        string
	Details         EvaluationDetails
}

// EvaluationDetails carries the segment counts behind the score.
type EvaluationDetails struct {
	TotalSegments  int
	MatchedCount   int
	PartialMatches int
}

// Evaluate grades an attempt against a reference passage. It is total over
// string inputs: an empty attempt short-circuits to a zero evaluation, an
// empty reference yields zero segments and a zero raw score.
//
// Each reference clause is matched independently against the attempt
// (windowed, so clause order and surrounding text don't anchor it), then the
// per-segment score is blended with the whole-text similarity so that
// globally close attempts with unusual phrasing are not zeroed, and
// segment-perfect but wildly reordered attempts don't score perfect either.
func Evaluate(reference, attempt string, keywords []string, p textmatch.MatcherParams) Evaluation {
	segments := textmatch.Segment(reference)
	total := len(segments)

	if textmatch.Normalize(attempt) == "" {
		missing := make([]string, len(keywords))
		copy(missing, keywords)
		return Evaluation{
			Score:           0,
			Quality:         0,
			MatchedSegments: make([]bool, total),
			MissingKeywords: missing,
			Feedback:        feedbackEmptyAttempt,
			Details:         EvaluationDetails{TotalSegments: total},
		}
	}

	matched := make([]bool, total)
	matchedCount := 0
	partialCount := 0
	raw := 0.0
	for i, seg := range segments {
		m := textmatch.MatchSegment(seg, attempt, p)
		matched[i] = m.Matched
		switch {
		case m.Matched:
			matchedCount++
			raw += 1.0
		case m.Partial:
			partialCount++
			raw += p.PartialCredit
		}
	}
	if total > 0 {
		raw /= float64(total)
	}

	overall := textmatch.Similarity(textmatch.Normalize(reference), textmatch.Normalize(attempt))
	score := raw*p.SegmentWeight + overall*p.OverallWeight
	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	score = math.Round(score*100) / 100

	missing := missingKeywords(keywords, attempt)

	return Evaluation{
		Score:           score,
		Quality:         srs.ScoreToQuality(score),
		MatchedSegments: matched,
		MissingKeywords: missing,
		Feedback:        composeFeedback(score, matchedCount, total, partialCount, missing),
		Details: EvaluationDetails{
			TotalSegments:  total,
			MatchedCount:   matchedCount,
			PartialMatches: partialCount,
		},
	}
}

// missingKeywords returns the keywords not found in the attempt, exactly or
// within typo distance of one of its tokens.
func missingKeywords(keywords []string, attempt string) []string {
	if len(keywords) == 0 {
		return nil
	}

	normAttempt := textmatch.Normalize(attempt)
	tokens := strings.Fields(normAttempt)

	var missing []string
	for _, kw := range keywords {
		normKw := textmatch.Normalize(kw)
		if normKw == "" {
			continue
		}
		if strings.Contains(normAttempt, normKw) {
			continue
		}
		found := false
		for _, tok := range tokens {
			if textmatch.Similarity(normKw, tok) >= keywordThreshold {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, kw)
		}
	}
	return missing
}
