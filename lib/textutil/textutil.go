package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName lowercases a name and drops all whitespace, so "John  Smith"
// and "john smith" compare equal.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	return whitespaceRegex.ReplaceAllString(name, "")
}

// MatchName reports whether the normalized name contains any of the already
// normalized matchers.
func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if m != "" && strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// SimilarName reports whether two names are at least threshold similar by
// Jaro-Winkler distance after normalization.
func SimilarName(left, right string, threshold float64) bool {
	left, right = NormalizeName(left), NormalizeName(right)
	if left == "" || right == "" {
		return false
	}
	return matchr.JaroWinkler(left, right, false) >= threshold
}
