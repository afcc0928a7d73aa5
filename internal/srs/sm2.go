// Package srs implements the modified SM-2 spaced-repetition scheduler:
// a fixed five-step graduation sequence (1, 3, 7, 14, 30 days) followed by
// ease-driven exponential growth. All functions are pure.
package srs

import (
	"fmt"
	"math"
	"time"
)

const (
	// MinEaseFactor is the floor below which the ease factor never drops.
	MinEaseFactor = 1.3
	// InitialEaseFactor is the ease assigned to a fresh passage.
	InitialEaseFactor = 2.5
	// PassQuality is the lowest quality that counts as a successful review.
	PassQuality = 3
)

// graduationIntervals are the fixed intervals, in days, for repetitions 1-5.
// Repetition 6 and beyond grow by round(interval × ease).
var graduationIntervals = [...]int{1, 3, 7, 14, 30}

// State is the persisted scheduling state of one passage.
type State struct {
	Repetition   int     // consecutive successful reviews since last reset
	EaseFactor   float64 // interval growth multiplier, >= MinEaseFactor
	IntervalDays int     // days until the next review
}

// NewState returns the state assigned to a freshly created passage.
func NewState() State {
	return State{Repetition: 0, EaseFactor: InitialEaseFactor, IntervalDays: 1}
}

// Result is the scheduler's output for one review.
type Result struct {
	Repetition     int
	EaseFactor     float64
	IntervalDays   int
	NextReviewAt   time.Time // date precision, no time-of-day component
	Recommendation string
}

// NextState returns Result's scheduling fields as a State.
func (r Result) NextState() State {
	return State{Repetition: r.Repetition, EaseFactor: r.EaseFactor, IntervalDays: r.IntervalDays}
}

// NextReview advances the review state machine for one review outcome.
// quality is clamped to [0,5]. A quality below PassQuality resets the
// graduation sequence; a pass advances it. The ease factor is updated with
// the standard SM-2 adjustment before branching and never drops below
// MinEaseFactor. The exponential regime multiplies the previous interval by
// the freshly updated ease.
func NextReview(quality int, s State, now time.Time) Result {
	if quality < 0 {
		quality = 0
	}
	if quality > 5 {
		quality = 5
	}

	q := float64(quality)
	ease := s.EaseFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if ease < MinEaseFactor {
		ease = MinEaseFactor
	}
	ease = math.Round(ease*100) / 100

	var (
		repetition     int
		interval       int
		recommendation string
	)

	if quality < PassQuality {
		repetition = 0
		interval = 1
		recommendation = recommendFail
	} else {
		repetition = s.Repetition + 1
		if repetition <= len(graduationIntervals) {
			interval = graduationIntervals[repetition-1]
			recommendation = recommendGraduation[repetition-1]
		} else {
			interval = int(math.Round(float64(s.IntervalDays) * ease))
			if interval < 1 {
				interval = 1
			}
			recommendation = fmt.Sprintf(recommendMatureFormat, interval)
		}

		if quality == PassQuality {
			recommendation += recommendMarginalSuffix
		} else if quality == 5 {
			recommendation += recommendPerfectSuffix
		}
	}

	return Result{
		Repetition:     repetition,
		EaseFactor:     ease,
		IntervalDays:   interval,
		NextReviewAt:   dateOnly(now).AddDate(0, 0, interval),
		Recommendation: recommendation,
	}
}

// dateOnly truncates t to midnight in its own location.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
