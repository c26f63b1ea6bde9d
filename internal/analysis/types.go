package analysis

import "github.com/jnadelneuro/apple-music-history/internal/catalog"

// Entry is one keyed value of an ordered aggregate.
type Entry[V any] struct {
	Key   string `yaml:"key" json:"key"`
	Value V      `yaml:"value" json:"value"`
}

// Stat accumulates listening for one song, artist, album, day or month.
// Times are in milliseconds.
type Stat struct {
	Plays      int64 `yaml:"plays" json:"plays"`
	Time       int64 `yaml:"time_ms" json:"time_ms"`
	MissedTime int64 `yaml:"missed_time_ms" json:"missed_time_ms"`
}

func (s *Stat) add(plays, played, missed int64) {
	s.Plays += plays
	s.Time += played
	s.MissedTime += missed
}

func (s Stat) timeMs() int64 {
	return s.Time
}

// SongStat is the Stat for one song.
type SongStat struct {
	Name   string `yaml:"name" json:"name"`
	Artist string `yaml:"artist" json:"artist"`
	Stat   `yaml:",inline"`

	// Excluded is fixed when the song is first seen.
	Excluded bool `yaml:"excluded,omitempty" json:"excluded,omitempty"`
}

// AlbumStat is the Stat for one album. Artist is the artist of the first
// play of the album.
type AlbumStat struct {
	Name   string `yaml:"name" json:"name"`
	Artist string `yaml:"artist" json:"artist"`
	Stat   `yaml:",inline"`
}

// Totals counts every non-excluded play.
type Totals struct {
	Plays int64 `yaml:"plays" json:"plays"`
	Time  int64 `yaml:"time_ms" json:"time_ms"`
}

// YearSummary covers the current listening year.
type YearSummary struct {
	Year    int               `yaml:"year" json:"year"`
	Plays   int64             `yaml:"plays" json:"plays"`
	Time    int64             `yaml:"time_ms" json:"time_ms"`
	Artists []Entry[Stat]     `yaml:"artists" json:"artists"`
	Songs   []Entry[SongStat] `yaml:"songs" json:"songs"`
}

// Heatmap is played time in milliseconds by local weekday (Sunday is 0) and
// hour.
type Heatmap [7][24]int64

// Skipped counts rows that were left out of the aggregates because they could
// not be read.
type Skipped struct {
	MissingField   int `yaml:"missing_field" json:"missing_field"`
	MalformedField int `yaml:"malformed_field" json:"malformed_field"`
}

// Result holds every aggregate from one run. All lists are sorted by time,
// most first, with ties in first-seen order. Year lists are sorted by year.
type Result struct {
	Songs         []Entry[SongStat]  `yaml:"songs" json:"songs"`
	FilteredSongs []Entry[SongStat]  `yaml:"filtered_songs" json:"filtered_songs"`
	Artists       []Entry[Stat]      `yaml:"artists" json:"artists"`
	Albums        []Entry[AlbumStat] `yaml:"albums" json:"albums"`
	Days          []Entry[Stat]      `yaml:"days" json:"days"`
	Months        []Entry[Stat]      `yaml:"months" json:"months"`

	Years       []Entry[[]Entry[SongStat]]  `yaml:"years" json:"years"`
	YearArtists []Entry[[]Entry[Stat]]      `yaml:"year_artists" json:"year_artists"`
	YearAlbums  []Entry[[]Entry[AlbumStat]] `yaml:"year_albums" json:"year_albums"`

	// Reasons counts end reasons, most first.
	Reasons []Entry[int64] `yaml:"reasons" json:"reasons"`

	Heatmap  Heatmap     `yaml:"heatmap" json:"heatmap"`
	ThisYear YearSummary `yaml:"this_year" json:"this_year"`
	Totals   Totals      `yaml:"totals" json:"totals"`

	ExcludedSongs []string `yaml:"excluded_songs" json:"excluded_songs"`

	// Matches is nil when no library was supplied.
	Matches *catalog.AuditResult `yaml:"matches,omitempty" json:"matches,omitempty"`

	Skipped Skipped `yaml:"skipped" json:"skipped"`
}

// Find returns the value for key in entries.
func Find[V any](entries []Entry[V], key string) (V, bool) {
	for _, e := range entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	var zero V
	return zero, false
}
