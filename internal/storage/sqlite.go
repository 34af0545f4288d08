package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver, no CGO required
)

const defaultDBFile = "daytrack.db"

const schema = `
CREATE TABLE IF NOT EXISTS slots (
	name       TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TEXT NOT NULL
);`

// SQLiteKV stores slots as rows of a single SQLite table.
type SQLiteKV struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (or creates) the database file in dir.
func OpenSQLite(dir, file string) (*SQLiteKV, error) {
	if file == "" {
		file = defaultDBFile
	}
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, file)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteKV{db: db, path: path}, nil
}

// Get returns the stored value of slot.
func (s *SQLiteKV) Get(slot string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM slots WHERE name = ?`, slot).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSlot
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %s: %w", slot, err)
	}
	return value, nil
}

// Put upserts slot.
func (s *SQLiteKV) Put(slot string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO slots (name, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		slot, value, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing slot %s: %w", slot, err)
	}
	return nil
}

// Path returns the database file path.
func (s *SQLiteKV) Path() string { return s.path }

// Close closes the database.
func (s *SQLiteKV) Close() error { return s.db.Close() }
