package analysis

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/jnadelneuro/apple-music-history/internal/catalog"
)

// Report is a condensed, human-readable view of a Result.
type Report struct {
	Metadata          ProfileMetadata   `yaml:"profile_metadata" json:"profile_metadata"`
	TopArtists        []ArtistSummary   `yaml:"top_artists" json:"top_artists"`
	TopSongs          []SongSummary     `yaml:"top_songs" json:"top_songs"`
	TopAlbums         []AlbumSummary    `yaml:"top_albums,omitempty" json:"top_albums,omitempty"`
	ThisYear          YearReport        `yaml:"this_year" json:"this_year"`
	ListeningPatterns ListeningPatterns `yaml:"listening_patterns" json:"listening_patterns"`
	LibraryMatch      *catalog.Summary  `yaml:"library_match,omitempty" json:"library_match,omitempty"`
}

type ProfileMetadata struct {
	GeneratedDate  string  `yaml:"generated_date" json:"generated_date"`
	TotalPlays     int64   `yaml:"total_plays" json:"total_plays"`
	TotalHours     float64 `yaml:"total_hours" json:"total_hours"`
	TotalArtists   int     `yaml:"total_artists" json:"total_artists"`
	TotalSongs     int     `yaml:"total_songs" json:"total_songs"`
	ExcludedSongs  int     `yaml:"excluded_songs" json:"excluded_songs"`
	ListeningStyle string  `yaml:"listening_style" json:"listening_style"`
}

type ArtistSummary struct {
	Name     string  `yaml:"name" json:"name"`
	Plays    int64   `yaml:"plays" json:"plays"`
	Hours    float64 `yaml:"hours" json:"hours"`
	PeakYear string  `yaml:"peak_year,omitempty" json:"peak_year,omitempty"`
}

type SongSummary struct {
	Name        string  `yaml:"name" json:"name"`
	Artist      string  `yaml:"artist" json:"artist"`
	Plays       int64   `yaml:"plays" json:"plays"`
	Hours       float64 `yaml:"hours" json:"hours"`
	MissedHours float64 `yaml:"missed_hours" json:"missed_hours"`
}

type AlbumSummary struct {
	Title  string  `yaml:"title" json:"title"`
	Artist string  `yaml:"artist" json:"artist"`
	Plays  int64   `yaml:"plays" json:"plays"`
	Hours  float64 `yaml:"hours" json:"hours"`
}

type YearReport struct {
	Year       int             `yaml:"year" json:"year"`
	Plays      int64           `yaml:"plays" json:"plays"`
	Hours      float64         `yaml:"hours" json:"hours"`
	TopArtists []ArtistSummary `yaml:"top_artists" json:"top_artists"`
	TopSongs   []SongSummary   `yaml:"top_songs" json:"top_songs"`
}

type ListeningPatterns struct {
	BusiestWeekday        string  `yaml:"busiest_weekday,omitempty" json:"busiest_weekday,omitempty"`
	BusiestHour           int     `yaml:"busiest_hour" json:"busiest_hour"`
	BusiestDay            string  `yaml:"busiest_day,omitempty" json:"busiest_day,omitempty"`
	BusiestMonth          string  `yaml:"busiest_month,omitempty" json:"busiest_month,omitempty"`
	AlbumsPerArtistMedian float64 `yaml:"albums_per_artist_median" json:"albums_per_artist_median"`
	RepeatListeningRatio  float64 `yaml:"repeat_listening_ratio" json:"repeat_listening_ratio"`
	CompletionRate        float64 `yaml:"completion_rate" json:"completion_rate"`
	TopEndReason          string  `yaml:"top_end_reason,omitempty" json:"top_end_reason,omitempty"`
}

// NewReport condenses r, keeping the top n of each list. n <= 0 keeps
// everything.
func NewReport(r *Result, n int, now time.Time) *Report {
	report := &Report{
		Metadata: ProfileMetadata{
			GeneratedDate: now.Format("2006-01-02"),
			TotalPlays:    r.Totals.Plays,
			TotalHours:    Hours(r.Totals.Time),
			TotalArtists:  len(r.Artists),
			TotalSongs:    len(r.FilteredSongs),
			ExcludedSongs: len(r.Songs) - len(r.FilteredSongs),
		},
		TopArtists: artistSummaries(top(r.Artists, n), r.YearArtists),
		TopSongs:   songSummaries(top(r.FilteredSongs, n)),
		TopAlbums:  albumSummaries(top(r.Albums, n)),
		ThisYear: YearReport{
			Year:       r.ThisYear.Year,
			Plays:      r.ThisYear.Plays,
			Hours:      Hours(r.ThisYear.Time),
			TopArtists: artistSummaries(top(r.ThisYear.Artists, n), nil),
			TopSongs:   songSummaries(top(r.ThisYear.Songs, n)),
		},
		ListeningPatterns: patterns(r),
	}

	// Two albums per artist is decent depth.
	if report.ListeningPatterns.AlbumsPerArtistMedian >= 2.0 {
		report.Metadata.ListeningStyle = "album-oriented"
	} else {
		report.Metadata.ListeningStyle = "track-oriented"
	}

	if r.Matches != nil {
		summary := r.Matches.Summary()
		report.LibraryMatch = &summary
	}
	return report
}

// Hours converts milliseconds to hours, rounded to one decimal.
func Hours(ms int64) float64 {
	return math.Round(float64(ms)/float64(time.Hour/time.Millisecond)*10) / 10
}

func top[V any](entries []Entry[V], n int) []Entry[V] {
	if n <= 0 || len(entries) <= n {
		return entries
	}
	return entries[:n]
}

func artistSummaries(entries []Entry[Stat], years []Entry[[]Entry[Stat]]) []ArtistSummary {
	out := make([]ArtistSummary, 0, len(entries))
	for _, e := range entries {
		out = append(out, ArtistSummary{
			Name:     e.Key,
			Plays:    e.Value.Plays,
			Hours:    Hours(e.Value.Time),
			PeakYear: peakYear(e.Key, years),
		})
	}
	return out
}

func songSummaries(entries []Entry[SongStat]) []SongSummary {
	out := make([]SongSummary, 0, len(entries))
	for _, e := range entries {
		out = append(out, SongSummary{
			Name:        e.Value.Name,
			Artist:      e.Value.Artist,
			Plays:       e.Value.Plays,
			Hours:       Hours(e.Value.Time),
			MissedHours: Hours(e.Value.MissedTime),
		})
	}
	return out
}

func albumSummaries(entries []Entry[AlbumStat]) []AlbumSummary {
	out := make([]AlbumSummary, 0, len(entries))
	for _, e := range entries {
		out = append(out, AlbumSummary{
			Title:  e.Value.Name,
			Artist: e.Value.Artist,
			Plays:  e.Value.Plays,
			Hours:  Hours(e.Value.Time),
		})
	}
	return out
}

// peakYear is the year the artist was listened to the most.
func peakYear(artist string, years []Entry[[]Entry[Stat]]) string {
	best := ""
	var bestTime int64
	for _, y := range years {
		s, ok := Find(y.Value, artist)
		if ok && s.Time > bestTime {
			best, bestTime = y.Key, s.Time
		}
	}
	return best
}

func patterns(r *Result) ListeningPatterns {
	var p ListeningPatterns

	var busiest int64
	for wd := range r.Heatmap {
		for hour, ms := range r.Heatmap[wd] {
			if ms > busiest {
				busiest = ms
				p.BusiestWeekday = time.Weekday(wd).String()
				p.BusiestHour = hour
			}
		}
	}

	if len(r.Days) > 0 {
		p.BusiestDay = r.Days[0].Key
	}
	if len(r.Months) > 0 {
		p.BusiestMonth = r.Months[0].Key
	}
	if len(r.Reasons) > 0 && r.Reasons[0].Value > 0 {
		p.TopEndReason = r.Reasons[0].Key
	}

	albumsPerArtist := make(map[string]int)
	for _, a := range r.Albums {
		albumsPerArtist[a.Value.Artist]++
	}
	counts := make([]int, 0, len(albumsPerArtist))
	for _, c := range albumsPerArtist {
		counts = append(counts, c)
	}
	p.AlbumsPerArtistMedian = median(counts)

	if len(r.FilteredSongs) > 0 {
		p.RepeatListeningRatio = round1(float64(r.Totals.Plays) / float64(len(r.FilteredSongs)))
	}

	var played, missed int64
	for _, s := range r.FilteredSongs {
		played += s.Value.Time
		missed += s.Value.MissedTime
	}
	if played+missed > 0 {
		p.CompletionRate = round1(float64(played) / float64(played+missed) * 100)
	}
	return p
}

func median(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sort.Ints(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return float64(values[mid])
	}
	return float64(values[mid-1]+values[mid]) / 2
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

// YearKeys lists the years present in r, oldest first.
func (r *Result) YearKeys() []int {
	years := make([]int, 0, len(r.Years))
	for _, y := range r.Years {
		if n, err := strconv.Atoi(y.Key); err == nil {
			years = append(years, n)
		}
	}
	return years
}
