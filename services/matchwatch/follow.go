package matchwatch

import (
	tw "trackwrestling-backend/lib/scrapers/trackwrestling"
	"trackwrestling-backend/lib/textutil"
)

const DefaultFollowThreshold = 0.9

// followFilter decides whether a match involves someone being followed. Names
// match by normalized containment first and fall back to Jaro-Winkler
// similarity for misspellings.
type followFilter struct {
	names      []string
	normalized []string
	threshold  float64
}

func newFollowFilter(names []string, threshold float64) followFilter {
	if threshold <= 0 {
		threshold = DefaultFollowThreshold
	}
	normalized := make([]string, len(names))
	for i, n := range names {
		normalized[i] = textutil.NormalizeName(n)
	}
	return followFilter{names: names, normalized: normalized, threshold: threshold}
}

func (f followFilter) wrestler(w *tw.Wrestler) bool {
	if w == nil {
		return false
	}
	name := w.Name()
	if textutil.MatchName(name, f.normalized) {
		return true
	}
	for _, followed := range f.names {
		if textutil.SimilarName(name, followed, f.threshold) {
			return true
		}
	}
	return false
}

// Match reports whether either wrestler is followed, everything matches when
// nobody is followed.
func (f followFilter) Match(m tw.Match) bool {
	if len(f.names) == 0 {
		return true
	}
	return f.wrestler(m.Wrestler1) || f.wrestler(m.Wrestler2)
}
