package trackwrestling

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

func newDocument(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

var tableTagRegex = regexp.MustCompile(`(?i)<table[\s>]`)

// newFragmentDocument parses a fragment that may be bare <tr> rows, which the
// html5 parser would otherwise drop outside of a <table>.
func newFragmentDocument(fragment string) (*goquery.Document, error) {
	if !tableTagRegex.MatchString(fragment) {
		fragment = "<table>" + fragment + "</table>"
	}
	return newDocument(fragment)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
