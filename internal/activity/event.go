// Package activity parses rows of an Apple Music play activity export into
// listening events.
package activity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jnadelneuro/apple-music-history/internal/record"
)

// Column names used by the play activity export.
const (
	FieldSong           = "Song Name"
	FieldPlayDuration   = "Play Duration Milliseconds"
	FieldMediaDuration  = "Media Duration In Milliseconds"
	FieldStartPosition  = "Start Position In Milliseconds"
	FieldEndPosition    = "End Position In Milliseconds"
	FieldEndTimestamp   = "Event End Timestamp"
	FieldStartTimestamp = "Event Start Timestamp"
	FieldUTCOffset      = "UTC Offset In Seconds"
	FieldEndReason      = "End Reason Type"
	FieldItemType       = "Item Type"
	FieldMediaType      = "Media Type"
)

// ArtistFields are the columns that may carry the artist, in preference order.
var ArtistFields = []string{
	"Artist Name",
	"Artist",
	"Container Artist Name",
	"artist",
	"artist_name",
}

// AlbumFields are the columns that may carry the album, in preference order.
var AlbumFields = []string{
	"Album Name",
	"Container Album Name",
	"album",
	"album_name",
}

// RequiredFields must all be columns of a row for it to be considered at all.
var RequiredFields = []string{
	FieldSong,
	FieldPlayDuration,
	FieldMediaDuration,
	FieldEndTimestamp,
	FieldUTCOffset,
}

var (
	// ErrMissingField is returned when a required column is absent from a row.
	ErrMissingField = errors.New("missing required field")

	// ErrMalformedField is returned when a required column is present but its
	// value can't be parsed.
	ErrMalformedField = errors.New("malformed field")
)

// FieldError describes which field of a row could not be used.
type FieldError struct {
	Field string
	Value string
	Err   error
	Cause error
}

func (e *FieldError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %q: %v: %v", e.Field, e.Value, e.Err, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Position is an optional playback offset in milliseconds.
type Position struct {
	Millis int64
	Valid  bool
}

// Equal reports whether both positions are absent, or both are present with
// the same value.
func (p Position) Equal(o Position) bool {
	if !p.Valid || !o.Valid {
		return p.Valid == o.Valid
	}
	return p.Millis == o.Millis
}

// Event is one row of the play activity export.
type Event struct {
	Song   string
	Artist string
	Album  string

	// PlayDuration has already been through NormalizeDuration.
	PlayDuration  int64
	MediaDuration int64

	StartPosition Position
	EndPosition   Position

	EndTime   time.Time
	StartTime time.Time

	// UTCOffset is in seconds.
	UTCOffset int

	EndReason string
	ItemType  string
	MediaType string
}

// Parse reads an event from row. It always returns as much of the event as
// could be read. The error wraps ErrMissingField when a required column is
// absent, and ErrMalformedField when one can't be parsed; missing fields take
// precedence.
func Parse(row record.Row) (Event, error) {
	e := Event{
		Song:      row[FieldSong],
		Artist:    row.First(ArtistFields...),
		Album:     row.First(AlbumFields...),
		EndReason: row[FieldEndReason],
		ItemType:  row[FieldItemType],
		MediaType: row[FieldMediaType],
	}

	var missing, malformed error
	for _, f := range RequiredFields {
		if _, ok := row[f]; !ok && missing == nil {
			missing = &FieldError{Field: f, Err: ErrMissingField}
		}
	}

	malformedField := func(field, value string, cause error) {
		if malformed == nil {
			malformed = &FieldError{Field: field, Value: value, Err: ErrMalformedField, Cause: cause}
		}
	}

	if v, ok := row[FieldPlayDuration]; ok {
		n, err := parseMillis(v)
		if err != nil {
			malformedField(FieldPlayDuration, v, err)
		}
		e.PlayDuration = n
	}
	if v, ok := row[FieldMediaDuration]; ok {
		n, err := parseMillis(v)
		if err != nil {
			malformedField(FieldMediaDuration, v, err)
		}
		e.MediaDuration = n
	}
	e.PlayDuration = NormalizeDuration(e.PlayDuration, e.MediaDuration)

	e.StartPosition = parsePosition(row[FieldStartPosition])
	e.EndPosition = parsePosition(row[FieldEndPosition])

	if v, ok := row[FieldEndTimestamp]; ok {
		t, err := ParseTimestamp(v)
		if err != nil {
			malformedField(FieldEndTimestamp, v, err)
		}
		e.EndTime = t
	}
	if v := strings.TrimSpace(row[FieldStartTimestamp]); v != "" {
		if t, err := ParseTimestamp(v); err == nil {
			e.StartTime = t
		}
	}

	if v, ok := row[FieldUTCOffset]; ok {
		n, err := parseMillis(v)
		if err != nil {
			malformedField(FieldUTCOffset, v, err)
		}
		e.UTCOffset = int(n)
	}

	if missing != nil {
		return e, missing
	}
	return e, malformed
}

// IsPlay reports whether the event is a song that was actually played, as
// opposed to a video, a show, or a track that never loaded.
func IsPlay(e Event) bool {
	return e.Song != "" &&
		e.MediaDuration > 0 &&
		e.ItemType != ItemTypeOriginalContentShows &&
		e.MediaType != MediaTypeVideo &&
		e.EndReason != ReasonFailedToLoad
}

// LocalTime returns the end timestamp shifted into the listener's timezone.
func (e Event) LocalTime() time.Time {
	return e.EndTime.In(time.FixedZone("", e.UTCOffset))
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses an export timestamp. Timestamps without a zone are
// read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// parseMillis parses an integer field. The export occasionally writes these
// with a decimal part, which is truncated.
func parseMillis(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

func parsePosition(s string) Position {
	s = strings.TrimSpace(s)
	if s == "" {
		return Position{}
	}
	n, err := parseMillis(s)
	if err != nil {
		return Position{}
	}
	return Position{Millis: n, Valid: true}
}
