package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Passage is a memorization source text.
type Passage struct {
	ID           string
	Reference    string
	Body         string
	Keywords     []string
	Difficulty   string
	SegmentCount int
	CreatedAt    int64
	UpdatedAt    int64
}

// CreatePassage inserts a passage and its initial review state in one
// transaction, so a passage never exists without a schedule.
func (db *DB) CreatePassage(p *Passage, rs *ReviewState) error {
	now := time.Now().UnixMilli()
	p.CreatedAt = now
	p.UpdatedAt = now

	keywords, err := json.Marshal(p.Keywords)
	if err != nil {
		return fmt.Errorf("marshal keywords: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin create passage: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO passages (id, reference, body, keywords, difficulty, segment_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Reference, p.Body, string(keywords), p.Difficulty, p.SegmentCount, p.CreatedAt, p.UpdatedAt); err != nil {
		tx.Rollback()
		return fmt.Errorf("insert passage: %w", err)
	}

	rs.PassageID = p.ID
	rs.UpdatedAt = now
	if _, err := tx.Exec(`
		INSERT INTO review_states (passage_id, repetition, ease_factor, interval_days, next_review_at, last_reviewed_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rs.PassageID, rs.Repetition, rs.EaseFactor, rs.IntervalDays, rs.NextReviewAt, rs.LastReviewedAt, rs.UpdatedAt); err != nil {
		tx.Rollback()
		return fmt.Errorf("insert review state: %w", err)
	}

	return tx.Commit()
}

// GetPassage returns a passage by id, or ErrNotFound.
func (db *DB) GetPassage(id string) (*Passage, error) {
	row := db.QueryRow(`
		SELECT id, reference, body, keywords, difficulty, segment_count, created_at, updated_at
		FROM passages WHERE id = ?
	`, id)
	return scanPassage(row)
}

func scanPassage(row *sql.Row) (*Passage, error) {
	var p Passage
	var keywords string
	err := row.Scan(&p.ID, &p.Reference, &p.Body, &keywords, &p.Difficulty, &p.SegmentCount, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get passage: %w", err)
	}
	if err := unmarshalKeywords(keywords, &p.Keywords); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPassages returns all passages, newest first.
func (db *DB) ListPassages() ([]Passage, error) {
	rows, err := db.Query(`
		SELECT id, reference, body, keywords, difficulty, segment_count, created_at, updated_at
		FROM passages ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list passages: %w", err)
	}
	defer rows.Close()

	var passages []Passage
	for rows.Next() {
		var p Passage
		var keywords string
		if err := rows.Scan(&p.ID, &p.Reference, &p.Body, &keywords, &p.Difficulty, &p.SegmentCount, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan passage: %w", err)
		}
		if err := unmarshalKeywords(keywords, &p.Keywords); err != nil {
			return nil, err
		}
		passages = append(passages, p)
	}
	return passages, rows.Err()
}

// DeletePassage removes a passage; review state and attempts cascade.
func (db *DB) DeletePassage(id string) error {
	result, err := db.Exec(`DELETE FROM passages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete passage: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func unmarshalKeywords(raw string, dst *[]string) error {
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("unmarshal keywords: %w", err)
	}
	return nil
}

// CountPassages returns the total number of passages.
func (db *DB) CountPassages() (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM passages`).Scan(&n)
	return n, err
}
