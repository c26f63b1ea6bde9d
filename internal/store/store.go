// Package store persists what outlives a single run: excluded songs, saved
// analysis snapshots and scheduled email reports.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a row to read or delete does not exist.
var ErrNotFound = errors.New("not found")

const createTables = `
CREATE TABLE IF NOT EXISTS Exclusion (
  song_key TEXT PRIMARY KEY,
  added DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS Snapshot (
  id TEXT PRIMARY KEY,
  generated DATETIME NOT NULL,
  source TEXT NOT NULL,
  plays INTEGER NOT NULL DEFAULT 0,
  body_format TEXT NOT NULL,
  body BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS Report (
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  run_day INTEGER NOT NULL,
  types TEXT NOT NULL,
  params TEXT,
  sent DATETIME,
  PRIMARY KEY (name, email)
);
`

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(createTables); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
