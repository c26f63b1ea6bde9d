// Package analysis aggregates a play activity history into listening
// statistics.
package analysis

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/jnadelneuro/apple-music-history/internal/activity"
	"github.com/jnadelneuro/apple-music-history/internal/catalog"
	"github.com/jnadelneuro/apple-music-history/internal/record"
	"github.com/jnadelneuro/apple-music-history/internal/resolve"
	"github.com/jnadelneuro/apple-music-history/internal/session"
)

// MinPlayDuration is how long a song must play, in milliseconds, to count.
const MinPlayDuration = 8000

// CurrentYearRolloverMonth is the first month in which the calendar year is
// treated as the current listening year. Before it, the previous year is.
const CurrentYearRolloverMonth = time.June

const (
	dayFormat   = "2 January, 2006"
	monthFormat = "2006-January"
)

// Options configures Aggregate.
type Options struct {
	// Now returns the current time; defaults to time.Now.
	Now func() time.Time

	// Logger receives diagnostics; defaults to a disabled logger.
	Logger *zerolog.Logger

	// TraceSong, if set, logs each step of resolving this song's artist.
	TraceSong string
}

// SongKey identifies a song by name and artist.
func SongKey(song, artist string) string {
	return fmt.Sprintf("'%s' by %s", song, artist)
}

// CurrentYear returns the listening year that now falls in.
func CurrentYear(now time.Time) int {
	if now.Month() < CurrentYearRolloverMonth {
		return now.Year() - 1
	}
	return now.Year()
}

type aggregator struct {
	resolver    *resolve.Resolver
	excluded    map[string]bool
	currentYear string

	songs   *ordered[SongStat]
	artists *ordered[Stat]
	albums  *ordered[AlbumStat]
	days    *ordered[Stat]
	months  *ordered[Stat]
	reasons *ordered[int64]

	yearSongs   *ordered[ordered[SongStat]]
	yearArtists *ordered[ordered[Stat]]
	yearAlbums  *ordered[ordered[AlbumStat]]

	thisYearArtists *ordered[Stat]
	thisYear        Totals

	heatmap Heatmap
	totals  Totals
	skipped Skipped
}

// Aggregate runs a single pass over rows, which must be in export order, and
// returns every listening aggregate. Songs in exclusions, keyed by SongKey,
// are counted only in Songs. index may be nil if there is no library, in
// which case Result.Matches is nil.
func Aggregate(rows []record.Row, exclusions []string, index catalog.Index, opts Options) *Result {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	resolver := resolve.New(index, log)
	if opts.TraceSong != "" {
		resolver.Trace(opts.TraceSong)
	}

	a := &aggregator{
		resolver:        resolver,
		excluded:        make(map[string]bool, len(exclusions)),
		currentYear:     strconv.Itoa(CurrentYear(now())),
		songs:           newOrdered[SongStat](),
		artists:         newOrdered[Stat](),
		albums:          newOrdered[AlbumStat](),
		days:            newOrdered[Stat](),
		months:          newOrdered[Stat](),
		reasons:         newOrdered[int64](),
		yearSongs:       newOrdered[ordered[SongStat]](),
		yearArtists:     newOrdered[ordered[Stat]](),
		yearAlbums:      newOrdered[ordered[AlbumStat]](),
		thisYearArtists: newOrdered[Stat](),
	}
	for _, key := range exclusions {
		a.excluded[key] = true
	}
	for _, reason := range activity.ReasonCodes {
		a.reasons.get(reason, nil)
	}

	var prev *activity.Event
	var cur, next activity.Event
	var curErr, nextErr error
	if len(rows) > 0 {
		cur, curErr = activity.Parse(rows[0])
	}
	for i := range rows {
		var lookahead *activity.Event
		if i+1 < len(rows) {
			next, nextErr = activity.Parse(rows[i+1])
			lookahead = &next
		}

		a.add(cur, curErr, prev, lookahead)

		e := cur
		prev = &e
		cur, curErr = next, nextErr
	}

	if a.skipped.MissingField > 0 || a.skipped.MalformedField > 0 {
		log.Debug().
			Int("missing_field", a.skipped.MissingField).
			Int("malformed_field", a.skipped.MalformedField).
			Msg("Skipped unreadable rows")
	}

	result := a.result(exclusions)
	if index != nil {
		result.Matches = catalog.AuditIndex(rows, index)
	}
	return result
}

func (a *aggregator) add(e activity.Event, err error, prev, next *activity.Event) {
	if errors.Is(err, activity.ErrMissingField) {
		a.skipped.MissingField++
		return
	}

	*a.reasons.get(e.EndReason, nil)++

	if err != nil {
		a.skipped.MalformedField++
		return
	}
	if !activity.IsPlay(e) || e.PlayDuration <= MinPlayDuration {
		return
	}

	artist := a.resolver.Artist(e)
	key := SongKey(e.Song, artist)
	missed := session.MissedTime(e, session.WillContinue(&e, next))
	var plays int64
	if !session.IsContinuation(prev, &e) {
		plays = 1
	}
	played := e.PlayDuration

	song := a.songs.get(key, func() SongStat {
		return SongStat{Name: e.Song, Artist: artist, Excluded: a.excluded[key]}
	})
	song.add(plays, played, missed)
	if song.Excluded {
		return
	}

	a.totals.Plays += plays
	a.totals.Time += played
	a.artists.get(artist, nil).add(plays, played, missed)

	if e.Album != "" {
		a.albums.get(e.Album, func() AlbumStat {
			return AlbumStat{Name: e.Album, Artist: artist}
		}).add(plays, played, missed)
	}

	end := e.EndTime.UTC()
	a.days.get(end.Format(dayFormat), nil).add(plays, played, 0)
	a.months.get(end.Format(monthFormat), nil).add(plays, played, missed)

	local := e.LocalTime()
	if wd, hour := int(local.Weekday()), local.Hour(); wd > 0 && wd < 7 && hour >= 0 && hour < 24 {
		a.heatmap[wd][hour] += played
	}

	year := strconv.Itoa(end.Year())
	a.yearSongs.get(year, newYear[SongStat]).get(key, func() SongStat {
		return SongStat{Name: e.Song, Artist: artist}
	}).add(plays, played, missed)
	a.yearArtists.get(year, newYear[Stat]).get(artist, nil).add(plays, played, missed)
	if e.Album != "" {
		a.yearAlbums.get(year, newYear[AlbumStat]).get(e.Album, func() AlbumStat {
			return AlbumStat{Name: e.Album, Artist: artist}
		}).add(plays, played, missed)
	}

	if year == a.currentYear {
		a.thisYear.Plays += plays
		a.thisYear.Time += played
		a.thisYearArtists.get(artist, nil).add(plays, played, missed)
	}
}

func (a *aggregator) result(exclusions []string) *Result {
	songs := byTime(a.songs)
	filtered := make([]Entry[SongStat], 0, len(songs))
	for _, s := range songs {
		if !s.Value.Excluded {
			filtered = append(filtered, s)
		}
	}

	year, _ := strconv.Atoi(a.currentYear)
	thisYear := YearSummary{
		Year:    year,
		Plays:   a.thisYear.Plays,
		Time:    a.thisYear.Time,
		Artists: byTime(a.thisYearArtists),
		Songs:   []Entry[SongStat]{},
	}
	if ys, ok := a.yearSongs.lookup(a.currentYear); ok {
		thisYear.Songs = byTime(ys)
	}

	excluded := make([]string, len(exclusions))
	copy(excluded, exclusions)

	return &Result{
		Songs:         songs,
		FilteredSongs: filtered,
		Artists:       byTime(a.artists),
		Albums:        byTime(a.albums),
		Days:          byTime(a.days),
		Months:        byTime(a.months),
		Years:         byYear(a.yearSongs),
		YearArtists:   byYear(a.yearArtists),
		YearAlbums:    byYear(a.yearAlbums),
		Reasons:       byCount(a.reasons),
		Heatmap:       a.heatmap,
		ThisYear:      thisYear,
		Totals:        a.totals,
		ExcludedSongs: excluded,
		Skipped:       a.skipped,
	}
}
