package catalog

import (
	"testing"

	"github.com/jnadelneuro/apple-music-history/internal/record"
)

func TestNormalizeTitle(t *testing.T) {
	cases := map[string]string{
		"Let It Be":        "let it be",
		"  Let   It\tBe  ": "let it be",
		"BOHEMIAN RHAPSODY": "bohemian rhapsody",
		"":                 "",
		"   ":              "",
	}
	for in, want := range cases {
		if got := NormalizeTitle(in); got != want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildIndex(t *testing.T) {
	idx := BuildIndex([]Entry{
		{Title: "Let It Be", Artist: "The Beatles"},
		{Title: "let it  be", Artist: "Aretha Franklin"},
		{Title: "Yesterday", Artist: "The Beatles"},
		{Title: "", Artist: "Nobody"},
	})

	if got := len(idx["let it be"]); got != 2 {
		t.Errorf("len(idx[%q]) = %d, want 2", "let it be", got)
	}
	if got := len(idx["yesterday"]); got != 1 {
		t.Errorf("len(idx[%q]) = %d, want 1", "yesterday", got)
	}
	if _, ok := idx[""]; ok {
		t.Errorf("entries without a title should not be indexed")
	}
	if !idx.Ambiguous("Let It Be") {
		t.Errorf("Ambiguous(%q) = false, want true", "Let It Be")
	}
	if idx.Ambiguous("Yesterday") {
		t.Errorf("Ambiguous(%q) = true, want false", "Yesterday")
	}
	for key, entries := range idx {
		if len(entries) == 0 {
			t.Errorf("idx[%q] is empty", key)
		}
	}
}

func TestBuildIndexStripsParentheticals(t *testing.T) {
	idx := BuildIndex([]Entry{
		{Title: "Song (Live)", Artist: "Band"},
		{Title: "(Intro)", Artist: "Band"},
	})

	if got := idx.Lookup("song"); len(got) != 1 || got[0].Title != "Song (Live)" {
		t.Errorf("Lookup(%q) = %+v, want the live entry", "song", got)
	}
	if got := idx.Lookup("Song (Live)"); len(got) != 1 {
		t.Errorf("Lookup(%q) = %+v, want one entry", "Song (Live)", got)
	}
	if _, ok := idx[""]; ok {
		t.Errorf("a title that is only a parenthetical should not add an empty key")
	}
}

func TestBuildIndexKeepsWordsApartAroundParenthetical(t *testing.T) {
	idx := BuildIndex([]Entry{{Title: "Love (Reprise) Song", Artist: "Band"}})

	if got := idx.Lookup("love song"); len(got) != 1 {
		t.Errorf("Lookup(%q) = %+v, want one entry", "love song", got)
	}
	if got := idx.Lookup("lovesong"); got != nil {
		t.Errorf("Lookup(%q) = %+v, want no entries", "lovesong", got)
	}
}

func TestEntriesDropsNonSongs(t *testing.T) {
	rows := []record.Row{
		{"Title": "Track", "Artist": "A", "Album": "X"},
		{"Song Name": "Other", "Artist Name": "B", "Content Type": "Song"},
		{"Title": "Chapter 1", "Artist": "Narrator", "Content Type": "Audiobook"},
		{"Title": "Clip", "Artist": "C", "Media Kind": "Music Video"},
	}

	entries := Entries(rows)
	if len(entries) != 2 {
		t.Fatalf("Entries() returned %d entries, want 2: %+v", len(entries), entries)
	}
	if entries[0].Title != "Track" || entries[0].Album != "X" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].Title != "Other" || entries[1].Artist != "B" {
		t.Errorf("entries[1] = %+v", entries[1])
	}
}
