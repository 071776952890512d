package trackwrestling

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
	"trackwrestling-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var inProgressColors = []string{"006600", "00ff66"}
var onDeckColors = []string{"yellow", "ffff00", "rgb(255,255,0)"}

// InferStatus maps the inline style of a status cell to a match status. Any
// color that is neither green nor yellow means the bout is in the hole.
func InferStatus(style string) Status {
	normalized := htmlutil.NormalizeStyle(style)
	for _, c := range inProgressColors {
		if strings.Contains(normalized, c) {
			return StatusInProgress
		}
	}
	for _, c := range onDeckColors {
		if strings.Contains(normalized, c) {
			return StatusOnDeck
		}
	}
	return StatusInHole
}

// ParseMatches returns a match for every row of the mat assignment table that
// has exactly 3 cells (status, mat, details). All other rows, and rows of
// tables nested in a cell, are skipped.
func ParseMatches(fragment string) ([]Match, error) {
	doc, err := newFragmentDocument(fragment)
	if err != nil {
		return nil, err
	}

	matches := []Match{}
	// rows of tables nested inside a details cell are not assignments
	rows := doc.Find("tr").FilterFunction(func(_ int, row *goquery.Selection) bool {
		return row.ParentsFiltered("td").Length() == 0
	})
	rows.Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td")
		if cells.Length() != 3 {
			return
		}
		matches = append(matches, parseMatchRow(cells.Eq(0), cells.Eq(1), cells.Eq(2)))
	})
	return matches, nil
}

var matNumberRegex = regexp.MustCompile(`Mat\s*(\d+)`)
var digitRunRegex = regexp.MustCompile(`\d+`)

func parseMatchRow(statusCell, matCell, details *goquery.Selection) Match {
	m := Match{}

	matText := matCell.Text()
	if groups := matNumberRegex.FindStringSubmatch(matText); groups != nil {
		m.Mat, _ = strconv.Atoi(groups[1])
	}
	// the bout number has no label, it is the second number in the cell
	if runs := digitRunRegex.FindAllString(matText, -1); len(runs) > 1 {
		m.Bout, _ = strconv.Atoi(runs[1])
	}

	m.WeightClass = htmlutil.CleanText(details.Find("div[data-short-title]").First().Text())
	m.Round = parseRound(details)

	style, _ := statusCell.Attr("style")
	if bgcolor, ok := statusCell.Attr("bgcolor"); ok {
		style += ";background-color:" + bgcolor
	}
	m.Status = InferStatus(style)

	blocks := details.Find("font")
	if blocks.Length() == 0 {
		blocks = details.Find("[data-wrestler-id]")
	}
	if blocks.Length() > 0 {
		w := parseWrestler(blocks.Eq(0))
		m.Wrestler1 = &w
	}
	if blocks.Length() > 1 {
		w := parseWrestler(blocks.Eq(1))
		m.Wrestler2 = &w
	}

	return m
}

// parseRound finds the two cell layout block (weight on the left, round on the
// right) and returns the right cell's text, or "" without the layout.
func parseRound(details *goquery.Selection) string {
	layout := details.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
		style, _ := s.Attr("style")
		decls := htmlutil.StyleDeclarations(style)
		return decls["display"] == "table" && decls["width"] == "100%"
	}).First()
	if layout.Length() == 0 {
		return ""
	}
	right := layout.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
		style, _ := s.Attr("style")
		decls := htmlutil.StyleDeclarations(style)
		return decls["display"] == "table-cell" && decls["text-align"] == "right"
	}).First()
	return htmlutil.CleanText(right.Text())
}

var recordRegex = regexp.MustCompile(`\d+-\d+`)
// the year may touch digits or punctuation but not letters, "Franklin" is not a
// freshman
var classYearRegex = regexp.MustCompile(`(?:^|[^A-Za-z])(Sr|Jr|So|Fr)(?:[^a-z]|$)`)
var teamNameRegex = regexp.MustCompile(`\((.*?)\)`)

// parseWrestler reads one wrestler block. Name spans are told apart by the
// length of their data-short-title: exactly 2 characters is the first name,
// anything longer is the last name.
func parseWrestler(block *goquery.Selection) Wrestler {
	w := Wrestler{}
	w.ID, _ = block.Attr("data-wrestler-id")
	w.Team.ID, _ = block.Attr("data-team-id")

	var firstSpan, lastSpan *html.Node
	spans := block.Find("span")
	for _, span := range spans.Nodes {
		title, ok := attr(span, "data-short-title")
		if !ok || title == "" {
			continue
		}
		n := utf8.RuneCountInString(title)
		if n == 2 && firstSpan == nil {
			firstSpan = span
		}
		if n > 2 && lastSpan == nil {
			lastSpan = span
		}
	}
	if firstSpan != nil {
		w.FirstName = htmlutil.CleanText(htmlutil.GetText(firstSpan))
	}
	if lastSpan != nil {
		w.LastName = htmlutil.CleanText(htmlutil.GetText(lastSpan))
	}

	if team := findTeamSpan(spans.Nodes, firstSpan, lastSpan); team != nil {
		w.Team.ShortName, _ = attr(team, "data-short-title")
	}

	text := htmlutil.CleanText(block.Text())
	if record := recordRegex.FindString(text); record != "" {
		w.Record = &record
	}
	if groups := classYearRegex.FindStringSubmatch(htmlutil.GetWords(block)); groups != nil {
		w.Year = &groups[1]
	}
	if groups := teamNameRegex.FindStringSubmatch(text); groups != nil {
		w.Team.Name = strings.TrimSpace(groups[1])
	}
	return w
}

// findTeamSpan returns the span holding the team, which is either
// parenthesized itself or sits inside the parentheses. Name spans are only
// considered when nothing else qualifies.
func findTeamSpan(spans []*html.Node, nameSpans ...*html.Node) *html.Node {
	isName := func(n *html.Node) bool {
		for _, name := range nameSpans {
			if n == name {
				return true
			}
		}
		return false
	}
	inParens := func(n *html.Node) bool {
		return n.Parent != nil && strings.Contains(htmlutil.GetText(n.Parent), "(")
	}

	for _, span := range spans {
		if strings.Contains(htmlutil.GetText(span), "(") {
			return span
		}
	}
	for _, span := range spans {
		if !isName(span) && inParens(span) {
			return span
		}
	}
	for _, span := range spans {
		if inParens(span) {
			return span
		}
	}
	return nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
