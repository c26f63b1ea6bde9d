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
	"reflect"
	"testing"
	"time"
)

func newMusicHistory() []testPlay {
	var plays []testPlay
	plays = append(plays, repeat(6, testPlay{"Old Song", "Old", "Old Album", "2022-03-01T12:00:00Z", ""})...)
	plays = append(plays, repeat(6, testPlay{"Old Song", "Old", "Old Album", "2023-03-01T12:00:00Z", ""})...)
	plays = append(plays, repeat(6, testPlay{"New Song", "New", "New Album", "2023-03-02T12:00:00Z", ""})...)
	plays = append(plays, repeat(2, testPlay{"Few Song", "Few", "Few Album", "2023-03-03T12:00:00Z", ""})...)
	return plays
}

func loadNewMusicPeriod(t *testing.T) Period {
	t.Helper()
	config := testLoadConfig(t, newMusicHistory()...)
	config.Start = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	config.End = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return mustLoadPeriod(t, config)
}

func TestNewArtists(t *testing.T) {
	p := loadNewMusicPeriod(t)

	got, err := (&NewArtistsAnalyzer{}).GetResults(p)
	if err != nil {
		t.Fatalf("GetResults() error: %v", err)
	}
	want := [][]string{
		{"Artist", "Plays", "Hours"},
		{"New", "6", "0.6"},
	}
	if !reflect.DeepEqual(got.results, want) {
		t.Errorf("results = %v, want %v", got.results, want)
	}
	if got.summary != "Found 1 new artists with 6 plays, 2023-01-01 to 2024-01-01\n" {
		t.Errorf("summary = %q", got.summary)
	}
}

func TestNewAlbums(t *testing.T) {
	p := loadNewMusicPeriod(t)

	got, err := (&NewAlbumsAnalyzer{}).GetResults(p)
	if err != nil {
		t.Fatalf("GetResults() error: %v", err)
	}
	want := [][]string{
		{"Album", "Artist", "Plays"},
		{"New Album", "New", "6"},
	}
	if !reflect.DeepEqual(got.results, want) {
		t.Errorf("results = %v, want %v", got.results, want)
	}
}

func TestNewArtistsWholeHistory(t *testing.T) {
	p := mustLoadPeriod(t, testLoadConfig(t, newMusicHistory()...))

	got, err := (&NewArtistsAnalyzer{}).GetResults(p)
	if err != nil {
		t.Fatalf("GetResults() error: %v", err)
	}

	// Nothing comes before the whole history, so every busy artist is new.
	want := [][]string{
		{"Artist", "Plays", "Hours"},
		{"Old", "12", "1.2"},
		{"New", "6", "0.6"},
	}
	if !reflect.DeepEqual(got.results, want) {
		t.Errorf("results = %v, want %v", got.results, want)
	}
}

func TestPrintNewArtistsBadRange(t *testing.T) {
	config := testLoadConfig(t, newMusicHistory()...)
	if err := printNewArtists(config, 0, []string{"yesterday"}); err == nil {
		t.Error("printNewArtists(yesterday) should have errored")
	}
}
