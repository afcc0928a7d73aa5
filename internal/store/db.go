// Package store persists passages, their review schedules, and attempt
// history in a local SQLite database.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// DB wraps a sql.DB connection to the versewalk SQLite database.
type DB struct {
	*sql.DB
	Path string
}

// DefaultDBPath returns the default database path: ~/.versewalk/versewalk.db
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".versewalk", "versewalk.db"), nil
}

// connPragmas are the per-connection settings every pooled connection needs.
// busy_timeout, foreign_keys, and synchronous reset on each new connection,
// so they must ride on the DSN where the driver applies them at connect time;
// a one-off Exec would configure only whichever connection the pool hands
// out. _txlock=immediate makes transactions take the write lock at BEGIN so
// concurrent read-modify-writes queue on busy_timeout instead of failing on
// lock upgrade.
const connPragmas = "_txlock=immediate" +
	"&_pragma=journal_mode(WAL)" +
	"&_pragma=synchronous(NORMAL)" +
	"&_pragma=foreign_keys(1)" +
	"&_pragma=busy_timeout(5000)"

// Open opens (or creates) the SQLite database at the given path,
// configures pragmas, and runs migrations.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", "file:"+path+"?"+connPragmas)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db := &DB{DB: sqlDB, Path: path}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// memDBSeq distinguishes in-memory databases so tests don't share state.
var memDBSeq atomic.Int64

// OpenMemory opens an in-memory SQLite database for testing. The database is
// named and shared-cache so that every pooled connection sees the same
// schema; a plain ":memory:" DSN would give each connection its own empty
// database.
func OpenMemory() (*DB, error) {
	name := fmt.Sprintf("versewalk_mem_%d", memDBSeq.Add(1))
	dsn := "file:" + name + "?mode=memory&cache=shared&" + connPragmas

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}

	db := &DB{DB: sqlDB, Path: ":memory:"}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}
