// Package catalog indexes a music library export by song title and audits how
// well play activity matches it.
package catalog

import (
	"regexp"
	"strings"

	"github.com/jnadelneuro/apple-music-history/internal/record"
)

// Library export columns, in preference order.
var (
	TitleFields      = []string{"Title", "Song Name"}
	ArtistFields      = []string{"Artist Name", "Artist", "artist"}
	AlbumFields       = []string{"Album", "Album Name", "album"}
	ContentTypeFields = []string{"Content Type", "Media Kind"}
)

// Entry is one track in the library.
type Entry struct {
	Title       string `yaml:"title" json:"title"`
	Artist      string `yaml:"artist" json:"artist"`
	Album       string `yaml:"album,omitempty" json:"album,omitempty"`
	ContentType string `yaml:"content_type,omitempty" json:"content_type,omitempty"`
}

// FromRow reads a library entry from a row.
func FromRow(row record.Row) Entry {
	return Entry{
		Title:       row.First(TitleFields...),
		Artist:      row.First(ArtistFields...),
		Album:       row.First(AlbumFields...),
		ContentType: row.First(ContentTypeFields...),
	}
}

// IsSong reports whether the entry is a song. Entries that don't say what
// they are count as songs.
func (e Entry) IsSong() bool {
	return e.ContentType == "" || strings.EqualFold(e.ContentType, "song")
}

// Entries reads library entries from rows, dropping anything that isn't a
// song, such as audiobooks and music videos.
func Entries(rows []record.Row) []Entry {
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		e := FromRow(row)
		if !e.IsSong() {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

var whitespace = regexp.MustCompile(`\s+`)
var parenthetical = regexp.MustCompile(`\s*\(.*?\)\s*`)

// NormalizeTitle lowercases s, trims it, and collapses runs of whitespace to
// a single space.
func NormalizeTitle(s string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(strings.ToLower(s)), " ")
}

// stripParentheticals removes "(Live)", "(feat. X)" and the like from an
// already normalized title.
func stripParentheticals(normalized string) string {
	if !strings.Contains(normalized, "(") || !strings.Contains(normalized, ")") {
		return normalized
	}
	return NormalizeTitle(parenthetical.ReplaceAllString(normalized, " "))
}
