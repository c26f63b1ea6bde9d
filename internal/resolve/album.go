package resolve

import (
	"strings"
	"unicode"

	"github.com/adrg/strutil/metrics"
)

// equivalentAlbums pairs album titles, normalized, that the library and the
// play activity disagree on but which are the same release.
var equivalentAlbums = map[string]string{
	"hamilton (original broadway cast recording)": "hamilton",
}

var levenshtein = metrics.NewLevenshtein()

// almostIdentical compares two normalized album titles. They match if they
// are equal, equal ignoring whitespace, one edit apart, or a known
// equivalent pair.
func almostIdentical(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	if removeSpace(a) == removeSpace(b) {
		return true
	}
	if equivalentAlbums[a] == b || equivalentAlbums[b] == a {
		return true
	}

	ra, rb := []rune(a), []rune(b)
	if d := len(ra) - len(rb); d > 1 || d < -1 {
		return false
	}
	return levenshtein.Distance(a, b) <= 1
}

func removeSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
