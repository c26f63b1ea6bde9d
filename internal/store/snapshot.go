package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/jnadelneuro/apple-music-history/internal/analysis"
)

const formatJSON = "json"

// Snapshot is a saved analysis result. Body is only filled in by Snapshot.
type Snapshot struct {
	ID         string
	Generated  time.Time
	Source     string
	Plays      int64
	BodyFormat string
	Body       []byte
}

// SaveSnapshot stores result under a new id. source describes where the
// activity came from, usually the activity file path.
func (s *Store) SaveSnapshot(result *analysis.Result, source string) (Snapshot, error) {
	body, err := json.Marshal(result)
	if err != nil {
		return Snapshot{}, fmt.Errorf("encoding snapshot: %w", err)
	}

	snap := Snapshot{
		ID:         uuid.New().String(),
		Generated:  time.Now().UTC(),
		Source:     source,
		Plays:      result.Totals.Plays,
		BodyFormat: formatJSON,
		Body:       body,
	}
	_, err = s.db.Exec("INSERT INTO Snapshot (id, generated, source, plays, body_format, body) VALUES (?, ?, ?, ?, ?, ?)",
		snap.ID, snap.Generated, snap.Source, snap.Plays, snap.BodyFormat, snap.Body)
	if err != nil {
		return Snapshot{}, fmt.Errorf("saving snapshot: %w", err)
	}
	return snap, nil
}

// Snapshots lists saved snapshots, newest first, without their bodies.
func (s *Store) Snapshots() ([]Snapshot, error) {
	rows, err := s.db.Query("SELECT id, generated, source, plays, body_format FROM Snapshot ORDER BY generated DESC, rowid DESC")
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.ID, &snap.Generated, &snap.Source, &snap.Plays, &snap.BodyFormat); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func (s *Store) Snapshot(id string) (Snapshot, error) {
	row := s.db.QueryRow("SELECT id, generated, source, plays, body_format, body FROM Snapshot WHERE id = ?", id)
	var snap Snapshot
	err := row.Scan(&snap.ID, &snap.Generated, &snap.Source, &snap.Plays, &snap.BodyFormat, &snap.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("snapshot %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading snapshot %q: %w", id, err)
	}
	return snap, nil
}

// Result decodes the stored analysis result.
func (snap Snapshot) Result() (*analysis.Result, error) {
	if snap.BodyFormat != formatJSON {
		return nil, fmt.Errorf("snapshot %q: unknown body format %q", snap.ID, snap.BodyFormat)
	}
	var result analysis.Result
	if err := json.Unmarshal(snap.Body, &result); err != nil {
		return nil, fmt.Errorf("decoding snapshot %q: %w", snap.ID, err)
	}
	return &result, nil
}
