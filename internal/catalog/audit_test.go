package catalog

import (
	"testing"

	"github.com/jnadelneuro/apple-music-history/internal/record"
)

func TestAudit(t *testing.T) {
	rows := []record.Row{
		{"Song Name": "Let It Be"},
		{"Song Name": "Bohemian Rhapsody"},
		{"Song Name": "let it be"},
		{"Song Name": "Unknown Song"},
		{"Song Name": ""},
	}
	entries := []Entry{
		{Title: "Let It Be", Artist: "The Beatles"},
		{Title: "Let It Be", Artist: "Aretha Franklin"},
		{Title: "Bohemian Rhapsody", Artist: "Queen"},
	}

	result := Audit(rows, entries)
	want := Statistics{
		TotalPlays:           4,
		Matched:              3,
		Unmatched:            1,
		Uncertain:            2,
		UniqueSongsPlayed:    3,
		UniqueSongsMatched:   2,
		UniqueSongsUncertain: 2,
	}
	// "Let It Be" and "let it be" are distinct names as played.
	if result.Statistics != want {
		t.Fatalf("Audit() statistics = %+v, want %+v", result.Statistics, want)
	}
	if len(result.PlayMatches) != 4 {
		t.Fatalf("len(PlayMatches) = %d, want 4", len(result.PlayMatches))
	}
	if result.PlayMatches[3].Row != 3 || result.PlayMatches[3].Result.Matched {
		t.Errorf("PlayMatches[3] = %+v, want unmatched row 3", result.PlayMatches[3])
	}
}

func TestAuditUncertainSongs(t *testing.T) {
	rows := []record.Row{
		{"Song Name": "Let It Be"},
		{"Song Name": "Let It Be"},
		{"Song Name": "Bohemian Rhapsody"},
		{"Song Name": "Unknown Song"},
	}
	entries := []Entry{
		{Title: "Let It Be", Artist: "The Beatles"},
		{Title: "Let It Be", Artist: "Aretha Franklin"},
		{Title: "Bohemian Rhapsody", Artist: "Queen"},
	}

	result := Audit(rows, entries)
	s := result.Statistics
	if s.Matched != 3 || s.Unmatched != 1 || s.Uncertain != 2 || s.UniqueSongsUncertain != 1 {
		t.Fatalf("Audit() statistics = %+v, want matched=3 unmatched=1 uncertain=2 uniqueUncertain=1", s)
	}
	if len(result.UncertainSongs) != 1 || result.UncertainSongs[0] != "Let It Be" {
		t.Fatalf("UncertainSongs = %v, want [Let It Be]", result.UncertainSongs)
	}

	summary := result.Summary()
	if summary.MatchRate != 75 {
		t.Errorf("MatchRate = %v, want 75", summary.MatchRate)
	}
	if summary.UncertainRate != 66.7 {
		t.Errorf("UncertainRate = %v, want 66.7", summary.UncertainRate)
	}
}

func TestAuditEmpty(t *testing.T) {
	result := Audit(nil, nil)
	if result.Statistics != (Statistics{}) {
		t.Fatalf("Audit(nil, nil) statistics = %+v, want zero", result.Statistics)
	}
	if s := result.Summary(); s.MatchRate != 0 || s.UncertainRate != 0 {
		t.Fatalf("Summary() of empty audit = %+v", s)
	}
}
