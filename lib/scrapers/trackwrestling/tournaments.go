package trackwrestling

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"trackwrestling-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// ParseTournamentList returns the tournaments of a search results page in
// document order. List items that fail to parse are skipped.
func ParseTournamentList(html string) ([]Tournament, error) {
	tournaments, _, err := ParseTournamentListItems(html)
	return tournaments, err
}

// ParseTournamentListItems is ParseTournamentList that also returns the list
// items that were skipped and why.
func ParseTournamentListItems(html string) ([]Tournament, []ItemError, error) {
	doc, err := newDocument(html)
	if err != nil {
		return nil, nil, err
	}

	tournaments := []Tournament{}
	var skipped []ItemError
	doc.Find(".tournament-ul > li").Each(func(i int, item *goquery.Selection) {
		t, err := parseTournamentItem(item)
		if err != nil {
			skipped = append(skipped, ItemError{Index: i, Err: err})
			return
		}
		tournaments = append(tournaments, t)
	})
	return tournaments, skipped, nil
}

func parseTournamentItem(item *goquery.Selection) (Tournament, error) {
	href, ok := item.Find(`a[href*="eventSelected"]`).First().Attr("href")
	if !ok {
		return Tournament{}, errors.New("no eventSelected link")
	}
	t, err := parseEventSelected(href)
	if err != nil {
		return Tournament{}, err
	}

	dateSpan := item.Find("div:nth-child(2) span:nth-child(2)").First()
	if dateSpan.Length() == 0 {
		return Tournament{}, errors.New("no date range")
	}
	t.StartDate, t.EndDate, err = ParseDateRange(dateSpan.Text())
	if err != nil {
		return Tournament{}, err
	}

	venue := item.Find("div:nth-child(3) span").First()
	if venue.Length() > 0 {
		v := parseListingVenue(htmlutil.GetLines(venue))
		t.VenueName, t.VenueCity, t.VenueState, t.VenueZip = v.name, v.city, v.state, v.zip
	}

	links := item.Find("div:nth-child(4)").First()
	if href, ok := links.Find(`a[href*="uploads"]`).First().Attr("href"); ok {
		t.FlyerUrl = optional(strings.TrimSpace(href))
	}
	if href, ok := links.Find(`a[href*="Website"]`).First().Attr("href"); ok {
		t.WebsiteUrl = optional(strings.TrimSpace(href))
	}

	return t, nil
}

const eventSelectedCall = "eventSelected("

// parseEventSelected reads `eventSelected(id, 'name', type, 'logo')` out of a
// link href. The arguments are split with quotes respected since names can
// contain commas.
func parseEventSelected(href string) (Tournament, error) {
	start := strings.Index(href, eventSelectedCall)
	if start < 0 {
		return Tournament{}, fmt.Errorf("no eventSelected call in %q", href)
	}
	args, err := splitCallArgs(href[start+len(eventSelectedCall):])
	if err != nil {
		return Tournament{}, err
	}
	if len(args) < 3 {
		return Tournament{}, fmt.Errorf("eventSelected has %d arguments, expected at least 3", len(args))
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return Tournament{}, fmt.Errorf("tournament id: %w", err)
	}
	typeId, err := strconv.Atoi(args[2])
	if err != nil {
		return Tournament{}, fmt.Errorf("event type: %w", err)
	}
	eventType, err := EventTypeFromID(typeId)
	if err != nil {
		return Tournament{}, err
	}

	t := Tournament{
		ID:        id,
		Name:      htmlutil.CleanText(args[1]),
		EventType: eventType,
	}
	if len(args) > 3 && args[3] != "null" {
		t.LogoUrl = optional(args[3])
	}
	return t, nil
}

// splitCallArgs splits the argument list of a javascript call up to its
// closing paren. Quoted arguments are unquoted and unescaped, every argument
// is trimmed.
func splitCallArgs(s string) ([]string, error) {
	var args []string
	var current strings.Builder
	var quote rune
	escaped := false
	for _, c := range s {
		switch {
		case escaped:
			current.WriteRune(c)
			escaped = false
		case quote != 0:
			switch c {
			case '\\':
				escaped = true
			case quote:
				quote = 0
			default:
				current.WriteRune(c)
			}
		case c == '\'' || c == '"':
			quote = c
		case c == ',':
			args = append(args, strings.TrimSpace(current.String()))
			current.Reset()
		case c == ')':
			args = append(args, strings.TrimSpace(current.String()))
			return args, nil
		default:
			current.WriteRune(c)
		}
	}
	return nil, errors.New("unterminated eventSelected call")
}

var datePartRegex = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})(?:/(\d{4}))?$`)

type partialDate struct {
	month   int
	day     int
	year    int
	hasYear bool
}

func parsePartialDate(s string) (partialDate, error) {
	groups := datePartRegex.FindStringSubmatch(strings.TrimSpace(s))
	if groups == nil {
		return partialDate{}, fmt.Errorf("invalid date %q", s)
	}
	month, _ := strconv.Atoi(groups[1])
	day, _ := strconv.Atoi(groups[2])
	p := partialDate{month: month, day: day}
	if groups[3] != "" {
		p.year, _ = strconv.Atoi(groups[3])
		p.hasYear = true
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return partialDate{}, fmt.Errorf("invalid date %q", s)
	}
	return p, nil
}

func (p partialDate) in(year int) (Date, error) {
	t := time.Date(year, time.Month(p.month), p.day, 0, 0, 0, 0, time.UTC)
	if t.Day() != p.day {
		return Date{}, fmt.Errorf("invalid date %d/%d/%d", p.month, p.day, year)
	}
	return NewDate(t), nil
}

var dateRangeSeparator = regexp.MustCompile(`\s*[-\x{2013}]\s*`)

// ParseDateRange parses "M/D/YYYY", "M/D/YYYY - M/D/YYYY", "M/D - M/D/YYYY"
// and "M/D/YYYY - M/D". A side without a year takes the other side's year,
// rolled over by one when that would put the end before the start.
func ParseDateRange(text string) (Date, *Date, error) {
	text = htmlutil.CleanText(text)
	parts := dateRangeSeparator.Split(text, -1)
	if len(parts) > 2 {
		return Date{}, nil, fmt.Errorf("invalid date range %q", text)
	}

	startPart, err := parsePartialDate(parts[0])
	if err != nil {
		return Date{}, nil, err
	}
	if len(parts) == 1 {
		if !startPart.hasYear {
			return Date{}, nil, fmt.Errorf("date %q has no year", text)
		}
		start, err := startPart.in(startPart.year)
		return start, nil, err
	}

	endPart, err := parsePartialDate(parts[1])
	if err != nil {
		return Date{}, nil, err
	}

	var start, end Date
	switch {
	case startPart.hasYear && endPart.hasYear:
		start, err = startPart.in(startPart.year)
		if err == nil {
			end, err = endPart.in(endPart.year)
		}
	case endPart.hasYear:
		end, err = endPart.in(endPart.year)
		if err == nil {
			start, err = startPart.in(endPart.year)
		}
		if err == nil && end.Before(start) {
			start, err = startPart.in(endPart.year - 1)
		}
	case startPart.hasYear:
		start, err = startPart.in(startPart.year)
		if err == nil {
			end, err = endPart.in(startPart.year)
		}
		if err == nil && end.Before(start) {
			end, err = endPart.in(startPart.year + 1)
		}
	default:
		err = fmt.Errorf("date range %q has no year", text)
	}
	if err != nil {
		return Date{}, nil, err
	}
	return start, &end, nil
}

type venue struct {
	name  *string
	city  *string
	state *string
	zip   *string
}

// parseCityStateZip parses "City, ST ZIP". ok is false unless every part was
// found, the parts that were found are still returned.
func parseCityStateZip(line string) (city, state, zip *string, ok bool) {
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return nil, nil, nil, false
	}
	city = optional(strings.TrimSpace(parts[0]))
	stateZip := strings.Fields(parts[1])
	if len(stateZip) < 2 {
		return city, nil, nil, false
	}
	state = optional(stateZip[0])
	zip = optional(stateZip[1])
	return city, state, zip, city != nil
}

// parseListingVenue reads the search result venue block: name, street, then
// "City, ST ZIP". A 2 line block is taken as name and city line only if the
// second line really looks like one.
func parseListingVenue(lines []string) venue {
	var v venue
	if len(lines) == 0 {
		return v
	}
	v.name = optional(lines[0])
	switch {
	case len(lines) >= 3:
		v.city, v.state, v.zip, _ = parseCityStateZip(lines[2])
	case len(lines) == 2:
		city, state, zip, ok := parseCityStateZip(lines[1])
		if ok {
			v.city, v.state, v.zip = city, state, zip
		}
	}
	return v
}

// parseHubVenue reads the hub venue block, where the city line is always last.
func parseHubVenue(lines []string) venue {
	var v venue
	if len(lines) == 0 {
		return v
	}
	v.name = optional(lines[0])
	if len(lines) > 1 {
		v.city, v.state, v.zip, _ = parseCityStateZip(lines[len(lines)-1])
	}
	return v
}

const hubContentSelector = ".hub-nav > ul > li:first-child .content"

var badgeEventTypes = []struct {
	class     string
	eventType EventType
}{
	{class: "bg-purple", eventType: EventPredefined},
	{class: "bg-green", eventType: EventOpen},
	{class: "bg-blue", eventType: EventTeam},
	{class: "bg-orange", eventType: EventFreestyle},
	{class: "bg-pink", eventType: EventSeason},
}

const badgeSelector = `[class*="bg-purple-"], [class*="bg-green-"], [class*="bg-blue-"], [class*="bg-orange-"], [class*="bg-pink-"]`

// ParseTournamentHub reads the info panel of a tournament's hub page. The
// event type comes from the colored badge when there is one and is fallback
// otherwise.
func ParseTournamentHub(html string, id int64, fallback EventType) (Tournament, error) {
	doc, err := newDocument(html)
	if err != nil {
		return Tournament{}, err
	}
	content := doc.Find(hubContentSelector).First()
	if content.Length() == 0 {
		return Tournament{}, &PayloadNotFoundError{Payload: "tournament hub", Marker: hubContentSelector}
	}

	t := Tournament{
		ID:        id,
		Name:      htmlutil.CleanText(content.Find("h3").First().Text()),
		EventType: fallback,
	}
	if src, ok := content.Find(".logo-icon img").First().Attr("src"); ok {
		t.LogoUrl = optional(strings.TrimSpace(src))
	}

	paragraphs := content.Find("p")
	if paragraphs.Length() == 0 {
		return Tournament{}, errors.New("trackwrestling: tournament hub has no dates")
	}
	t.StartDate, t.EndDate, err = ParseDateRange(paragraphs.Eq(0).Text())
	if err != nil {
		return Tournament{}, fmt.Errorf("trackwrestling: tournament hub dates: %w", err)
	}
	if paragraphs.Length() > 1 {
		v := parseHubVenue(htmlutil.GetLines(paragraphs.Eq(1)))
		t.VenueName, t.VenueCity, t.VenueState, t.VenueZip = v.name, v.city, v.state, v.zip
	}

	if href, ok := doc.Find(`a[href*="event_flyer"]`).First().Attr("href"); ok {
		t.FlyerUrl = optional(strings.TrimSpace(href))
	}
	if href, ok := doc.Find(`a[href*="website"]`).First().Attr("href"); ok {
		t.WebsiteUrl = optional(strings.TrimSpace(href))
	}

	class, _ := doc.Find(badgeSelector).First().Attr("class")
	for _, badge := range badgeEventTypes {
		if strings.Contains(class, badge.class) {
			t.EventType = badge.eventType
			break
		}
	}

	return t, nil
}
