package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "passages: memorization source texts",
		SQL: `
CREATE TABLE passages (
    id             TEXT PRIMARY KEY,
    reference      TEXT NOT NULL,
    body           TEXT NOT NULL,
    keywords       TEXT NOT NULL DEFAULT '[]',
    difficulty     TEXT NOT NULL CHECK (difficulty IN ('easy', 'moderate', 'hard')),
    segment_count  INTEGER NOT NULL DEFAULT 1,
    created_at     INTEGER NOT NULL,
    updated_at     INTEGER NOT NULL
);

CREATE INDEX idx_passages_reference ON passages(reference);
CREATE INDEX idx_passages_created   ON passages(created_at DESC);
`,
	},
	{
		Version:     2,
		Description: "review_states: scheduling state per passage",
		SQL: `
CREATE TABLE review_states (
    passage_id       TEXT PRIMARY KEY,
    repetition       INTEGER NOT NULL DEFAULT 0 CHECK (repetition >= 0),
    ease_factor      REAL NOT NULL DEFAULT 2.5 CHECK (ease_factor >= 1.3),
    interval_days    INTEGER NOT NULL DEFAULT 1 CHECK (interval_days >= 1),
    next_review_at   INTEGER NOT NULL,
    last_reviewed_at INTEGER,
    updated_at       INTEGER NOT NULL,

    FOREIGN KEY (passage_id) REFERENCES passages(id) ON DELETE CASCADE
);

CREATE INDEX idx_review_due ON review_states(next_review_at);
`,
	},
	{
		Version:     3,
		Description: "attempts: recitation attempt history",
		SQL: `
CREATE TABLE attempts (
    id             TEXT PRIMARY KEY,
    passage_id     TEXT NOT NULL,
    attempt_text   TEXT NOT NULL,
    score          REAL NOT NULL,
    quality        INTEGER NOT NULL,
    matched_count  INTEGER NOT NULL DEFAULT 0,
    partial_count  INTEGER NOT NULL DEFAULT 0,
    total_segments INTEGER NOT NULL DEFAULT 0,
    feedback       TEXT,
    created_at     INTEGER NOT NULL,

    FOREIGN KEY (passage_id) REFERENCES passages(id) ON DELETE CASCADE
);

CREATE INDEX idx_attempts_passage ON attempts(passage_id);
CREATE INDEX idx_attempts_created ON attempts(created_at DESC);
`,
	},
}

func (db *DB) migrate() error {
	// Create schema_versions table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
