package catalog

// Index maps normalized song titles to every library entry with that title.
// Every list in the index is non-empty.
type Index map[string][]Entry

// BuildIndex indexes entries by normalized title. Entries without a title are
// skipped. A title with parentheticals is also indexed without them, so that
// "Song (Live)" is found when looking up "Song".
func BuildIndex(entries []Entry) Index {
	idx := make(Index)
	for _, e := range entries {
		key := NormalizeTitle(e.Title)
		if key == "" {
			continue
		}
		idx[key] = append(idx[key], e)

		if stripped := stripParentheticals(key); stripped != key && stripped != "" {
			idx[stripped] = append(idx[stripped], e)
		}
	}
	return idx
}

// Lookup returns the entries whose title matches song, or nil.
func (idx Index) Lookup(song string) []Entry {
	key := NormalizeTitle(song)
	if key == "" {
		return nil
	}
	return idx[key]
}

// MatchResult describes how a song name matched the library.
type MatchResult struct {
	Matched   bool    `yaml:"matched" json:"matched"`
	Uncertain bool    `yaml:"uncertain" json:"uncertain"`
	Count     int     `yaml:"count" json:"count"`
	Entries   []Entry `yaml:"entries,omitempty" json:"entries,omitempty"`
}

// Match classifies song as unmatched, matched to exactly one entry, or
// matched to several (uncertain).
func (idx Index) Match(song string) MatchResult {
	entries := idx.Lookup(song)
	if len(entries) == 0 {
		return MatchResult{}
	}
	return MatchResult{
		Matched:   true,
		Uncertain: len(entries) >= 2,
		Count:     len(entries),
		Entries:   entries,
	}
}

// Ambiguous reports whether song matches more than one entry.
func (idx Index) Ambiguous(song string) bool {
	return len(idx.Lookup(song)) >= 2
}
