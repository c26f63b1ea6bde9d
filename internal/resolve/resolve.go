// Package resolve works out who performed a played song when the play
// activity export doesn't say.
package resolve

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/jnadelneuro/apple-music-history/internal/activity"
	"github.com/jnadelneuro/apple-music-history/internal/catalog"
)

// UnknownArtist is used for songs whose artist can't be determined.
const UnknownArtist = "Unknown Artist"

// Resolver resolves artists against a library index. A Resolver warns about
// unresolved songs only once, so use a new one for each run.
type Resolver struct {
	index     catalog.Index
	log       zerolog.Logger
	warned    bool
	traceSong string
}

// New returns a Resolver for index, which may be nil.
func New(index catalog.Index, log zerolog.Logger) *Resolver {
	return &Resolver{index: index, log: log}
}

// Trace logs every resolution step for song at trace level.
func (r *Resolver) Trace(song string) {
	r.traceSong = catalog.NormalizeTitle(song)
}

// Artist returns the artist for e. The artist in the event always wins;
// otherwise the library is consulted, and failing that UnknownArtist is
// returned.
func (r *Resolver) Artist(e activity.Event) string {
	if e.Artist != "" {
		r.trace(e.Song, "event", e.Artist)
		return e.Artist
	}

	if artist, ok := r.FromCatalog(e.Song, e.Album); ok {
		return artist
	}

	if !r.warned {
		r.warned = true
		r.log.Warn().
			Str("song", e.Song).
			Msgf("Artist not found, using %q. Check that the play activity has an artist column or supply a library file.", UnknownArtist)
	}
	r.trace(e.Song, "unknown", UnknownArtist)
	return UnknownArtist
}

// FromCatalog looks song up in the library. When several tracks share the
// title, it picks their common artist, or the shortest artist name contained
// in all the others, or the artist of the track whose album is nearly the
// same as album.
func (r *Resolver) FromCatalog(song, album string) (string, bool) {
	if song == "" {
		return "", false
	}

	var candidates []catalog.Entry
	for _, e := range r.index.Lookup(song) {
		if e.Artist != "" {
			candidates = append(candidates, e)
		}
	}

	switch len(candidates) {
	case 0:
		r.trace(song, "not-in-library", "")
		return "", false
	case 1:
		r.trace(song, "single-entry", candidates[0].Artist)
		return candidates[0].Artist, true
	}

	if artist, ok := sharedArtist(candidates); ok {
		r.trace(song, "shared-artist", artist)
		return artist, true
	}

	if artist, ok := nestedArtist(candidates); ok {
		r.trace(song, "nested-artist", artist)
		return artist, true
	}

	if want := catalog.NormalizeTitle(album); want != "" {
		for _, c := range candidates {
			if almostIdentical(want, catalog.NormalizeTitle(c.Album)) {
				r.trace(song, "album", c.Artist)
				return c.Artist, true
			}
		}
	}

	r.trace(song, "ambiguous", "")
	return "", false
}

// Unambiguous reports whether song matches exactly one library entry.
func (r *Resolver) Unambiguous(song string) bool {
	return len(r.index.Lookup(song)) == 1
}

func (r *Resolver) trace(song, step, artist string) {
	if r.traceSong == "" || catalog.NormalizeTitle(song) != r.traceSong {
		return
	}
	r.log.Trace().
		Str("song", song).
		Str("step", step).
		Str("artist", artist).
		Msg("resolving artist")
}

func sharedArtist(candidates []catalog.Entry) (string, bool) {
	first := candidates[0].Artist
	for _, c := range candidates[1:] {
		if c.Artist != first {
			return "", false
		}
	}
	return first, true
}

// nestedArtist handles "Artist" vs "Artist feat. Someone": if some artist
// name is a case-insensitive substring of every other, the shortest such name
// is returned.
func nestedArtist(candidates []catalog.Entry) (string, bool) {
	best := ""
	for _, c := range candidates {
		needle := strings.ToLower(c.Artist)
		containedInAll := true
		for _, other := range candidates {
			if !strings.Contains(strings.ToLower(other.Artist), needle) {
				containedInAll = false
				break
			}
		}
		if containedInAll && (best == "" || len(c.Artist) < len(best)) {
			best = c.Artist
		}
	}
	return best, best != ""
}
