package trackwrestling

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"trackwrestling-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// BracketScriptMarker is the object construction only the bracket viewer's
// rendering script performs.
const BracketScriptMarker = "new Pile()"

var bracketMarkerRegex = regexp.MustCompile(`new\s+Pile\s*\(\s*\)`)

// matches `str = "..."` but not `xstr = ` or `obj.str = `
var strAssignmentRegex = regexp.MustCompile(`(?:^|[^\w$.])str\s*=\s*"((?:[^"\\]|\\.)*)"`)

// LocateScripts returns the text of every inline script matching marker, in
// document order. No match is a *PayloadNotFoundError.
func LocateScripts(doc *goquery.Document, payload string, marker *regexp.Regexp) ([]string, error) {
	var matched []string
	for _, text := range htmlutil.ScriptTexts(doc) {
		if marker.MatchString(text) {
			matched = append(matched, text)
		}
	}
	if len(matched) == 0 {
		return nil, &PayloadNotFoundError{Payload: payload, Marker: marker.String()}
	}
	return matched, nil
}

// StrAssignments returns the string literals assigned to `str` in script, in
// source order, with javascript escapes resolved.
func StrAssignments(script string) []string {
	var out []string
	for _, groups := range strAssignmentRegex.FindAllStringSubmatch(script, -1) {
		out = append(out, unescapeJS(groups[1]))
	}
	return out
}

func unescapeJS(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'x':
			r, ok := hexRune(s, i+1, 2)
			if !ok {
				b.WriteByte('x')
				continue
			}
			b.WriteRune(r)
			i += 2
		case 'u':
			r, ok := hexRune(s, i+1, 4)
			if !ok {
				b.WriteByte('u')
				continue
			}
			i += 4
			// characters outside the BMP are written as a surrogate pair
			if utf16.IsSurrogate(r) && strings.HasPrefix(s[i+1:], `\u`) {
				if low, ok := hexRune(s, i+3, 4); ok {
					if pair := utf16.DecodeRune(r, low); pair != unicode.ReplacementChar {
						r = pair
						i += 6
					}
				}
			}
			b.WriteRune(r)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func hexRune(s string, start, n int) (rune, bool) {
	if start+n > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[start:start+n], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

// BracketPayloads are the three raw embedded strings of the bracket viewer.
type BracketPayloads struct {
	Templates    string
	Weights      string
	BracketTypes string
	// Assignments is how many `str` assignments were found, anything under 3
	// means the missing payloads were defaulted to "".
	Assignments int
}

// LocateBracketPayloads finds the bracket rendering script(s) and picks the
// 1st, 2nd and 3rd `str` assignment as templates, weights and bracket types.
// The assignments may live in one script block or be spread over several
// marked blocks, they are read in document order either way.
func LocateBracketPayloads(doc *goquery.Document) (BracketPayloads, error) {
	scripts, err := LocateScripts(doc, "bracket script", bracketMarkerRegex)
	if err != nil {
		return BracketPayloads{}, &PayloadNotFoundError{
			Payload: "bracket script",
			Marker:  BracketScriptMarker,
		}
	}

	var assignments []string
	for _, s := range scripts {
		assignments = append(assignments, StrAssignments(s)...)
	}

	at := func(i int) string {
		if i < len(assignments) {
			return assignments[i]
		}
		return ""
	}
	return BracketPayloads{
		Templates:    at(0),
		Weights:      at(1),
		BracketTypes: at(2),
		Assignments:  len(assignments),
	}, nil
}
