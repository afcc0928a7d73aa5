package store

import (
	"database/sql"
	"fmt"
)

// Attempt is one recorded recitation attempt. Rows are append-only and only
// ever written through AdvanceReview, in the same transaction as the review
// state they produced.
type Attempt struct {
	ID            string
	PassageID     string
	AttemptText   string
	Score         float64
	Quality       int
	MatchedCount  int
	PartialCount  int
	TotalSegments int
	Feedback      string
	CreatedAt     int64
}

func insertAttempt(tx *sql.Tx, a *Attempt) error {
	if _, err := tx.Exec(`
		INSERT INTO attempts (id, passage_id, attempt_text, score, quality, matched_count, partial_count, total_segments, feedback, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.PassageID, a.AttemptText, a.Score, a.Quality, a.MatchedCount, a.PartialCount, a.TotalSegments, a.Feedback, a.CreatedAt); err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// ListAttempts returns a passage's attempts, newest first.
func (db *DB) ListAttempts(passageID string, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`
		SELECT id, passage_id, attempt_text, score, quality, matched_count, partial_count, total_segments, feedback, created_at
		FROM attempts WHERE passage_id = ? ORDER BY created_at DESC LIMIT ?
	`, passageID, limit)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var a Attempt
		if err := rows.Scan(&a.ID, &a.PassageID, &a.AttemptText, &a.Score, &a.Quality, &a.MatchedCount, &a.PartialCount, &a.TotalSegments, &a.Feedback, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// AttemptStats summarizes a passage's attempt history.
type AttemptStats struct {
	Count     int
	AvgScore  float64
	BestScore float64
	LastAt    int64
}

// GetAttemptStats returns aggregate attempt stats for a passage. A passage
// with no attempts yields the zero value, not an error.
func (db *DB) GetAttemptStats(passageID string) (*AttemptStats, error) {
	var s AttemptStats
	err := db.QueryRow(`
		SELECT COUNT(*), COALESCE(AVG(score), 0), COALESCE(MAX(score), 0), COALESCE(MAX(created_at), 0)
		FROM attempts WHERE passage_id = ?
	`, passageID).Scan(&s.Count, &s.AvgScore, &s.BestScore, &s.LastAt)
	if err != nil {
		return nil, fmt.Errorf("attempt stats: %w", err)
	}
	return &s, nil
}
