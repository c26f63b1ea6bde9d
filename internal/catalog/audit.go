package catalog

import (
	"math"

	"github.com/jnadelneuro/apple-music-history/internal/record"
)

const songField = "Song Name"

// Statistics counts how plays matched the library.
type Statistics struct {
	TotalPlays           int `yaml:"total_plays" json:"total_plays"`
	Matched              int `yaml:"matched" json:"matched"`
	Unmatched            int `yaml:"unmatched" json:"unmatched"`
	Uncertain            int `yaml:"uncertain" json:"uncertain"`
	UniqueSongsPlayed    int `yaml:"unique_songs_played" json:"unique_songs_played"`
	UniqueSongsMatched   int `yaml:"unique_songs_matched" json:"unique_songs_matched"`
	UniqueSongsUncertain int `yaml:"unique_songs_uncertain" json:"unique_songs_uncertain"`
}

// PlayMatch is the match result for a single play.
type PlayMatch struct {
	// Row is the index of the play in the input.
	Row    int
	Song   string
	Result MatchResult
}

// AuditResult is the outcome of matching a full play history to the library.
type AuditResult struct {
	Statistics Statistics `yaml:"statistics" json:"statistics"`

	PlayMatches []PlayMatch `yaml:"-" json:"-"`

	// UncertainSongs are the song names, as played, that matched more than one
	// library entry at least once.
	UncertainSongs []string `yaml:"uncertain_songs" json:"uncertain_songs"`
}

// Audit matches every play in rows against the library. It is informational
// only; nothing here affects listening statistics.
func Audit(rows []record.Row, entries []Entry) *AuditResult {
	return AuditIndex(rows, BuildIndex(entries))
}

// AuditIndex is Audit with a prebuilt index.
func AuditIndex(rows []record.Row, idx Index) *AuditResult {
	result := &AuditResult{
		UncertainSongs: []string{},
	}

	played := make(map[string]bool)
	matched := make(map[string]bool)
	uncertain := make(map[string]bool)

	for i, row := range rows {
		song := row[songField]
		if song == "" {
			continue
		}

		result.Statistics.TotalPlays++
		key := NormalizeTitle(song)
		played[key] = true

		m := idx.Match(song)
		if m.Matched {
			result.Statistics.Matched++
			matched[key] = true
			if m.Uncertain {
				result.Statistics.Uncertain++
				if !uncertain[song] {
					uncertain[song] = true
					result.UncertainSongs = append(result.UncertainSongs, song)
				}
			}
		} else {
			result.Statistics.Unmatched++
		}

		result.PlayMatches = append(result.PlayMatches, PlayMatch{Row: i, Song: song, Result: m})
	}

	result.Statistics.UniqueSongsPlayed = len(played)
	result.Statistics.UniqueSongsMatched = len(matched)
	result.Statistics.UniqueSongsUncertain = len(uncertain)
	return result
}

// Summary is a display-friendly view of an AuditResult.
type Summary struct {
	TotalPlays     int      `yaml:"total_plays" json:"total_plays"`
	MatchedPlays   int      `yaml:"matched_plays" json:"matched_plays"`
	UnmatchedPlays int      `yaml:"unmatched_plays" json:"unmatched_plays"`
	UncertainPlays int      `yaml:"uncertain_plays" json:"uncertain_plays"`
	MatchRate      float64  `yaml:"match_rate" json:"match_rate"`
	UncertainRate  float64  `yaml:"uncertain_rate" json:"uncertain_rate"`
	UniqueSongs    int      `yaml:"unique_songs" json:"unique_songs"`
	UncertainSongs []string `yaml:"uncertain_songs" json:"uncertain_songs"`
}

// Summary computes match rates as percentages with one decimal. The match
// rate is over all plays; the uncertain rate is over matched plays.
func (r *AuditResult) Summary() Summary {
	s := r.Statistics
	return Summary{
		TotalPlays:     s.TotalPlays,
		MatchedPlays:   s.Matched,
		UnmatchedPlays: s.Unmatched,
		UncertainPlays: s.Uncertain,
		MatchRate:      percent(s.Matched, s.TotalPlays),
		UncertainRate:  percent(s.Uncertain, s.Matched),
		UniqueSongs:    s.UniqueSongsPlayed,
		UncertainSongs: r.UncertainSongs,
	}
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)/float64(total)*1000) / 10
}
