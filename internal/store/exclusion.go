package store

import (
	"fmt"
	"time"
)

// Exclusion is a song, keyed as "'<song>' by <artist>", that is left out of
// every aggregate except the song list.
type Exclusion struct {
	Key   string
	Added time.Time
}

// AddExclusion excludes a song. Adding it again keeps the original entry.
func (s *Store) AddExclusion(key string) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO Exclusion (song_key, added) VALUES (?, ?)", key, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("adding exclusion %q: %w", key, err)
	}
	return nil
}

func (s *Store) RemoveExclusion(key string) error {
	res, err := s.db.Exec("DELETE FROM Exclusion WHERE song_key = ?", key)
	if err != nil {
		return fmt.Errorf("removing exclusion %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("removing exclusion %q: %w", key, err)
	}
	if n == 0 {
		return fmt.Errorf("exclusion %q: %w", key, ErrNotFound)
	}
	return nil
}

// Exclusions lists exclusions in the order they were added.
func (s *Store) Exclusions() ([]Exclusion, error) {
	rows, err := s.db.Query("SELECT song_key, added FROM Exclusion ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("querying exclusions: %w", err)
	}
	defer rows.Close()

	var exclusions []Exclusion
	for rows.Next() {
		var e Exclusion
		if err := rows.Scan(&e.Key, &e.Added); err != nil {
			return nil, fmt.Errorf("scanning exclusion: %w", err)
		}
		exclusions = append(exclusions, e)
	}
	return exclusions, rows.Err()
}

// ExclusionKeys lists just the keys of Exclusions.
func (s *Store) ExclusionKeys() ([]string, error) {
	exclusions, err := s.Exclusions()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(exclusions))
	for _, e := range exclusions {
		keys = append(keys, e.Key)
	}
	return keys, nil
}
