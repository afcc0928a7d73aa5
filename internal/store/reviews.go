package store

import (
	"database/sql"
	"fmt"
	"time"
)

// ReviewState is the persisted scheduling state of one passage. Timestamps
// are unix milliseconds; next_review_at points at local midnight of the due
// date.
type ReviewState struct {
	PassageID      string
	Repetition     int
	EaseFactor     float64
	IntervalDays   int
	NextReviewAt   int64
	LastReviewedAt *int64
	UpdatedAt      int64
}

// GetReviewState returns the review state for a passage, or ErrNotFound.
func (db *DB) GetReviewState(passageID string) (*ReviewState, error) {
	var rs ReviewState
	err := db.QueryRow(`
		SELECT passage_id, repetition, ease_factor, interval_days, next_review_at, last_reviewed_at, updated_at
		FROM review_states WHERE passage_id = ?
	`, passageID).Scan(&rs.PassageID, &rs.Repetition, &rs.EaseFactor, &rs.IntervalDays, &rs.NextReviewAt, &rs.LastReviewedAt, &rs.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get review state: %w", err)
	}
	return &rs, nil
}

// AdvanceReview applies advance to the current review state and persists the
// result, optionally recording an attempt, all in one write transaction. The
// new state is a function of the previous persisted state, so the read and
// the write must not straddle transactions: two interleaved submissions
// would otherwise both read the same prior state and one advance would be
// silently lost. Returns ErrNotFound when the passage has no review state.
func (db *DB) AdvanceReview(passageID string, a *Attempt, advance func(ReviewState) ReviewState) (*ReviewState, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin advance review: %w", err)
	}

	var cur ReviewState
	err = tx.QueryRow(`
		SELECT passage_id, repetition, ease_factor, interval_days, next_review_at, last_reviewed_at, updated_at
		FROM review_states WHERE passage_id = ?
	`, passageID).Scan(&cur.PassageID, &cur.Repetition, &cur.EaseFactor, &cur.IntervalDays, &cur.NextReviewAt, &cur.LastReviewedAt, &cur.UpdatedAt)
	if err == sql.ErrNoRows {
		tx.Rollback()
		return nil, ErrNotFound
	}
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("load review state: %w", err)
	}

	next := advance(cur)
	now := time.Now().UnixMilli()
	next.PassageID = passageID
	next.LastReviewedAt = &now
	next.UpdatedAt = now

	if _, err := tx.Exec(`
		UPDATE review_states
		SET repetition = ?, ease_factor = ?, interval_days = ?, next_review_at = ?, last_reviewed_at = ?, updated_at = ?
		WHERE passage_id = ?
	`, next.Repetition, next.EaseFactor, next.IntervalDays, next.NextReviewAt, next.LastReviewedAt, next.UpdatedAt, passageID); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("update review state: %w", err)
	}

	if a != nil {
		a.CreatedAt = now
		if err := insertAttempt(tx, a); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit advance review: %w", err)
	}
	return &next, nil
}

// DuePassage pairs a passage with its review state for due listings.
type DuePassage struct {
	Passage     Passage
	ReviewState ReviewState
}

// DueReviews returns passages whose next review is at or before asOf,
// most overdue first.
func (db *DB) DueReviews(asOf int64) ([]DuePassage, error) {
	rows, err := db.Query(`
		SELECT p.id, p.reference, p.body, p.keywords, p.difficulty, p.segment_count, p.created_at, p.updated_at,
		       r.passage_id, r.repetition, r.ease_factor, r.interval_days, r.next_review_at, r.last_reviewed_at, r.updated_at
		FROM review_states r
		JOIN passages p ON p.id = r.passage_id
		WHERE r.next_review_at <= ?
		ORDER BY r.next_review_at ASC
	`, asOf)
	if err != nil {
		return nil, fmt.Errorf("due reviews: %w", err)
	}
	defer rows.Close()

	var due []DuePassage
	for rows.Next() {
		var d DuePassage
		var keywords string
		if err := rows.Scan(
			&d.Passage.ID, &d.Passage.Reference, &d.Passage.Body, &keywords, &d.Passage.Difficulty,
			&d.Passage.SegmentCount, &d.Passage.CreatedAt, &d.Passage.UpdatedAt,
			&d.ReviewState.PassageID, &d.ReviewState.Repetition, &d.ReviewState.EaseFactor,
			&d.ReviewState.IntervalDays, &d.ReviewState.NextReviewAt, &d.ReviewState.LastReviewedAt,
			&d.ReviewState.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan due review: %w", err)
		}
		if err := unmarshalKeywords(keywords, &d.Passage.Keywords); err != nil {
			return nil, err
		}
		due = append(due, d)
	}
	return due, rows.Err()
}
