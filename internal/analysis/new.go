package analysis

import "sort"

// NewArtists lists artists played more than minCurrent times in current that
// were played fewer than maxBefore times in before. The most played come
// first.
func NewArtists(before, current *Result, maxBefore, minCurrent int64) []Entry[Stat] {
	return newIn(before.Artists, current.Artists, func(s Stat) int64 { return s.Plays }, maxBefore, minCurrent)
}

// NewAlbums is NewArtists for albums.
func NewAlbums(before, current *Result, maxBefore, minCurrent int64) []Entry[AlbumStat] {
	return newIn(before.Albums, current.Albums, func(s AlbumStat) int64 { return s.Plays }, maxBefore, minCurrent)
}

func newIn[V any](before, current []Entry[V], plays func(V) int64, maxBefore, minCurrent int64) []Entry[V] {
	prev := make(map[string]int64, len(before))
	for _, e := range before {
		prev[e.Key] = plays(e.Value)
	}

	out := []Entry[V]{}
	for _, e := range current {
		if p, ok := prev[e.Key]; (!ok || p < maxBefore) && plays(e.Value) > minCurrent {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return plays(out[i].Value) > plays(out[j].Value)
	})
	return out
}
