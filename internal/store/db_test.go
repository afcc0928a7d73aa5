package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenRunsMigrations(t *testing.T) {
	db := openTestDB(t)

	version, err := db.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, len(migrations), version)
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	version, err := db.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, len(migrations), version)
}

func TestMigrateIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.migrate())
	require.NoError(t, db.migrate())

	version, err := db.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, len(migrations), version)
}

func TestOpenMemorySharedAcrossConnections(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.CreatePassage(testPassage("p1"), testReviewState()))

	// Hold a result set open so the pool must serve the next query from a
	// second connection; it must see the same database, not a fresh empty
	// one.
	rows, err := db.Query(`SELECT id FROM passages`)
	require.NoError(t, err)
	defer rows.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM passages`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestOpenMemoryIsolatedBetweenOpens(t *testing.T) {
	db1 := openTestDB(t)
	db2 := openTestDB(t)

	require.NoError(t, db1.CreatePassage(testPassage("p1"), testReviewState()))

	n, err := db2.CountPassages()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestForeignKeysEnforced(t *testing.T) {
	db := openTestDB(t)

	// foreign_keys is a per-connection pragma; an orphan insert must fail on
	// whichever connection serves it.
	_, err := db.Exec(`
		INSERT INTO attempts (id, passage_id, attempt_text, score, quality, created_at)
		VALUES ('a1', 'no-such-passage', 'x', 0.5, 3, 0)
	`)
	assert.Error(t, err)
}

func TestDifficultyCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	p := testPassage("p1")
	p.Difficulty = "impossible"
	err := db.CreatePassage(p, testReviewState())
	assert.Error(t, err)

	n, err := db.CountPassages()
	require.NoError(t, err)
	assert.Equal(t, 0, n, "failed insert rolls back the whole transaction")
}
