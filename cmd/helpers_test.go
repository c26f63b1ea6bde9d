/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/jnadelneuro/apple-music-history/internal/store"
)

// fixedNow is in July, so the current listening year is 2023.
var fixedNow = time.Date(2023, 7, 12, 12, 0, 0, 0, time.UTC)

// testPlay is one row of a test activity export. Each play is 0.1 hours.
type testPlay struct {
	song, artist, album string

	// end is the end timestamp, RFC 3339.
	end string

	reason string
}

var activityHeader = []string{
	"Artist Name",
	"Album Name",
	"Song Name",
	"Play Duration Milliseconds",
	"Media Duration In Milliseconds",
	"Event End Timestamp",
	"UTC Offset In Seconds",
	"End Reason Type",
	"Item Type",
	"Media Type",
}

func writeActivity(t *testing.T, plays ...testPlay) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Apple Music Play Activity.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("os.Create(%q) error: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(activityHeader); err != nil {
		t.Fatalf("writing header: %v", err)
	}
	for _, p := range plays {
		reason := p.reason
		if reason == "" {
			reason = "NATURAL_END_OF_TRACK"
		}
		err := w.Write([]string{
			p.artist,
			p.album,
			p.song,
			strconv.Itoa(360000),
			strconv.Itoa(400000),
			p.end,
			"0",
			reason,
			"ORIGINAL_CONTENT_SONGS",
			"AUDIO",
		})
		if err != nil {
			t.Fatalf("writing row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flushing %q: %v", path, err)
	}
	return path
}

// repeat returns n copies of p.
func repeat(n int, p testPlay) []testPlay {
	out := make([]testPlay, n)
	for i := range out {
		out[i] = p
	}
	return out
}

func createTestDb(t *testing.T) (*store.Store, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "music-history.db")

	db, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New(%s) error: %v", dbPath, err)
	}
	t.Cleanup(func() { db.Close() })
	return db, dbPath
}

func testLoadConfig(t *testing.T, plays ...testPlay) LoadConfig {
	t.Helper()
	_, dbPath := createTestDb(t)
	return LoadConfig{
		ActivityPath: writeActivity(t, plays...),
		DbPath:       dbPath,
		Now:          func() time.Time { return fixedNow },
	}
}

func mustLoadPeriod(t *testing.T, config LoadConfig) Period {
	t.Helper()
	p, err := loadPeriod(config)
	if err != nil {
		t.Fatalf("loadPeriod() error: %v", err)
	}
	return p
}

// sampleHistory has three artists over 2022 and 2023.
func sampleHistory() []testPlay {
	var plays []testPlay
	plays = append(plays, repeat(3, testPlay{"Song A", "Artist A", "Album A", "2023-01-16T15:00:00Z", ""})...)
	plays = append(plays, testPlay{"Song B", "Artist B", "Album B", "2023-01-17T09:00:00Z", "TRACK_SKIPPED_FORWARDS"})
	plays = append(plays, repeat(2, testPlay{"Song C", "Artist C", "Album C", "2022-05-02T20:00:00Z", ""})...)
	plays = append(plays, testPlay{"Song A", "Artist A", "Album A", "2022-05-03T20:00:00Z", ""})
	return plays
}
