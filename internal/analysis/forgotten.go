package analysis

import (
	"sort"
	"strconv"
)

// ForgottenConfig selects artists and albums that were played a lot in
// earlier years but not at all since LastYearBefore.
type ForgottenConfig struct {
	// Only include entities whose most recent play is in a year before this.
	LastYearBefore int
	MinArtistPlays int64
	MinAlbumPlays  int64
	ResultsPerBand int
	SortBy         string // "dormancy" or "plays"
}

type ForgottenArtist struct {
	Artist         string `yaml:"artist" json:"artist"`
	TotalPlays     int64  `yaml:"total_plays" json:"total_plays"`
	FirstYear      int    `yaml:"first_year" json:"first_year"`
	LastYear       int    `yaml:"last_year" json:"last_year"`
	YearsSinceLast int    `yaml:"years_since_last" json:"years_since_last"`
	Band           string `yaml:"band" json:"band"`
}

type ForgottenAlbum struct {
	Album          string `yaml:"album" json:"album"`
	Artist         string `yaml:"artist" json:"artist"`
	TotalPlays     int64  `yaml:"total_plays" json:"total_plays"`
	FirstYear      int    `yaml:"first_year" json:"first_year"`
	LastYear       int    `yaml:"last_year" json:"last_year"`
	YearsSinceLast int    `yaml:"years_since_last" json:"years_since_last"`
	Band           string `yaml:"band" json:"band"`
}

const (
	BandObsession = "Obsession"
	BandStrong    = "Strong"
	BandModerate  = "Moderate"

	// Artist thresholds
	ThresholdArtistObsession = 120
	ThresholdArtistStrong    = 50
	ThresholdArtistModerate  = 15

	// Album thresholds
	ThresholdAlbumObsession = 60
	ThresholdAlbumStrong    = 30
	ThresholdAlbumModerate  = 10
)

// Bands lists interest bands from strongest to weakest.
var Bands = []string{BandObsession, BandStrong, BandModerate}

// GetThreshold returns the minimum plays for a given band and type (artist/album).
func GetThreshold(band string, isArtist bool) int64 {
	if isArtist {
		switch band {
		case BandObsession:
			return ThresholdArtistObsession
		case BandStrong:
			return ThresholdArtistStrong
		case BandModerate:
			return ThresholdArtistModerate
		}
	} else {
		switch band {
		case BandObsession:
			return ThresholdAlbumObsession
		case BandStrong:
			return ThresholdAlbumStrong
		case BandModerate:
			return ThresholdAlbumModerate
		}
	}
	return 0
}

func determineBand(plays int64, isArtist bool) string {
	for _, band := range Bands {
		if plays >= GetThreshold(band, isArtist) {
			return band
		}
	}
	return ""
}

type yearSpan struct {
	plays       int64
	first, last int
	artist      string
}

func spans[V any](years []Entry[[]Entry[V]], plays func(V) int64, artist func(V) string) (map[string]*yearSpan, []string) {
	out := make(map[string]*yearSpan)
	var order []string
	for _, y := range years {
		year, err := strconv.Atoi(y.Key)
		if err != nil {
			continue
		}
		for _, e := range y.Value {
			s, ok := out[e.Key]
			if !ok {
				s = &yearSpan{first: year, last: year, artist: artist(e.Value)}
				out[e.Key] = s
				order = append(order, e.Key)
			}
			s.plays += plays(e.Value)
			s.first = min(s.first, year)
			s.last = max(s.last, year)
		}
	}
	return out, order
}

// GetForgottenArtists groups forgotten artists by interest band.
func GetForgottenArtists(r *Result, cfg ForgottenConfig, currentYear int) map[string][]ForgottenArtist {
	stats, order := spans(r.YearArtists,
		func(s Stat) int64 { return s.Plays },
		func(Stat) string { return "" })

	results := make(map[string][]ForgottenArtist)
	for _, name := range order {
		s := stats[name]
		if s.last >= cfg.LastYearBefore || s.plays < cfg.MinArtistPlays {
			continue
		}
		a := ForgottenArtist{
			Artist:         name,
			TotalPlays:     s.plays,
			FirstYear:      s.first,
			LastYear:       s.last,
			YearsSinceLast: currentYear - s.last,
		}
		a.Band = determineBand(a.TotalPlays, true)
		if a.Band == "" {
			continue
		}
		results[a.Band] = append(results[a.Band], a)
	}

	for band := range results {
		sortArtists(results[band], cfg.SortBy)
		if cfg.ResultsPerBand > 0 && len(results[band]) > cfg.ResultsPerBand {
			results[band] = results[band][:cfg.ResultsPerBand]
		}
	}
	return results
}

// GetForgottenAlbums groups forgotten albums by interest band.
func GetForgottenAlbums(r *Result, cfg ForgottenConfig, currentYear int) map[string][]ForgottenAlbum {
	stats, order := spans(r.YearAlbums,
		func(s AlbumStat) int64 { return s.Plays },
		func(s AlbumStat) string { return s.Artist })

	results := make(map[string][]ForgottenAlbum)
	for _, name := range order {
		s := stats[name]
		if s.last >= cfg.LastYearBefore || s.plays < cfg.MinAlbumPlays {
			continue
		}
		a := ForgottenAlbum{
			Album:          name,
			Artist:         s.artist,
			TotalPlays:     s.plays,
			FirstYear:      s.first,
			LastYear:       s.last,
			YearsSinceLast: currentYear - s.last,
		}
		a.Band = determineBand(a.TotalPlays, false)
		if a.Band == "" {
			continue
		}
		results[a.Band] = append(results[a.Band], a)
	}

	for band := range results {
		sortAlbums(results[band], cfg.SortBy)
		if cfg.ResultsPerBand > 0 && len(results[band]) > cfg.ResultsPerBand {
			results[band] = results[band][:cfg.ResultsPerBand]
		}
	}
	return results
}

func sortArtists(artists []ForgottenArtist, sortBy string) {
	sort.SliceStable(artists, func(i, j int) bool {
		if sortBy == "plays" {
			return artists[i].TotalPlays > artists[j].TotalPlays
		}
		// Longest dormancy first
		return artists[i].YearsSinceLast > artists[j].YearsSinceLast
	})
}

func sortAlbums(albums []ForgottenAlbum, sortBy string) {
	sort.SliceStable(albums, func(i, j int) bool {
		if sortBy == "plays" {
			return albums[i].TotalPlays > albums[j].TotalPlays
		}
		return albums[i].YearsSinceLast > albums[j].YearsSinceLast
	})
}
