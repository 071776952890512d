package trackwrestling

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// EventType is the kind of tournament, it decides the url namespace every
// subsequent request about the tournament is made under.
type EventType int

const (
	EventPredefined EventType = iota + 1
	EventOpen
	EventTeam
	EventFreestyle
	EventSeason
)

type eventTypeInfo struct {
	segment string
	alias   string
}

var eventTypes = map[EventType]eventTypeInfo{
	EventPredefined: {segment: "predefinedtournaments", alias: "predefined"},
	EventOpen:       {segment: "opentournaments", alias: "open"},
	EventTeam:       {segment: "teamtournaments", alias: "team"},
	EventFreestyle:  {segment: "freestyletournaments", alias: "freestyle"},
	EventSeason:     {segment: "seasontournaments", alias: "season"},
}

// EventTypes lists every known event type in id order.
func EventTypes() []EventType {
	return []EventType{EventPredefined, EventOpen, EventTeam, EventFreestyle, EventSeason}
}

// EventTypeFromID resolves the numeric code the site passes to eventSelected().
func EventTypeFromID(id int) (EventType, error) {
	e := EventType(id)
	if _, ok := eventTypes[e]; !ok {
		return 0, &UnknownEventTypeError{Value: strconv.Itoa(id)}
	}
	return e, nil
}

// EventTypeFromAlias resolves the short alias used in this service's urls.
func EventTypeFromAlias(alias string) (EventType, error) {
	for e, info := range eventTypes {
		if info.alias == alias {
			return e, nil
		}
	}
	return 0, &UnknownEventTypeError{Value: alias}
}

// ParseEventType accepts either an alias ("predefined") or the numeric id.
func ParseEventType(value string) (EventType, error) {
	e, err := EventTypeFromAlias(value)
	if err == nil {
		return e, nil
	}
	id, convErr := strconv.Atoi(value)
	if convErr != nil {
		return 0, err
	}
	return EventTypeFromID(id)
}

func (e EventType) ID() int {
	return int(e)
}

// Segment is the path segment on trackwrestling.com, ex. "predefinedtournaments".
func (e EventType) Segment() string {
	return eventTypes[e].segment
}

func (e EventType) Alias() string {
	return eventTypes[e].alias
}

func (e EventType) Valid() bool {
	_, ok := eventTypes[e]
	return ok
}

func (e EventType) String() string {
	if !e.Valid() {
		return fmt.Sprintf("EventType(%d)", int(e))
	}
	return e.Alias()
}

func (e EventType) MarshalJSON() ([]byte, error) {
	if !e.Valid() {
		return nil, &UnknownEventTypeError{Value: strconv.Itoa(int(e))}
	}
	return json.Marshal(e.Alias())
}

func (e *EventType) UnmarshalJSON(data []byte) error {
	var alias string
	err := json.Unmarshal(data, &alias)
	if err != nil {
		return err
	}
	parsed, err := EventTypeFromAlias(alias)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Date is a calendar date without a time or timezone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

func NewDate(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	err := json.Unmarshal(data, &s)
	if err != nil {
		return err
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	*d = NewDate(t)
	return nil
}

// Tournament is one event, as listed on the search page or its hub page.
type Tournament struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	EventType  EventType `json:"event_type"`
	StartDate  Date      `json:"start_date"`
	EndDate    *Date     `json:"end_date"`
	VenueName  *string   `json:"venue_name"`
	VenueCity  *string   `json:"venue_city"`
	VenueState *string   `json:"venue_state"`
	VenueZip   *string   `json:"venue_zip"`
	LogoUrl    *string   `json:"logo_url"`
	FlyerUrl   *string   `json:"event_flyer_url"`
	WebsiteUrl *string   `json:"website_url"`
}

type Team struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

type Wrestler struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Team      Team    `json:"team"`
	Record    *string `json:"record"`
	Year      *string `json:"year"`
}

// Name is the display name, "<first> <last>".
func (w Wrestler) Name() string {
	switch {
	case w.FirstName == "":
		return w.LastName
	case w.LastName == "":
		return w.FirstName
	}
	return w.FirstName + " " + w.LastName
}

func (w Wrestler) MarshalJSON() ([]byte, error) {
	type plain Wrestler
	return json.Marshal(struct {
		plain
		Name string `json:"name"`
	}{plain: plain(w), Name: w.Name()})
}

// Status is the state of a bout on the mat assignment board.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusOnDeck     Status = "on_deck"
	StatusInHole     Status = "in_hole"
)

type Match struct {
	Mat         int       `json:"mat"`
	Bout        int       `json:"bout"`
	Status      Status    `json:"status"`
	WeightClass string    `json:"weight_class"`
	Round       string    `json:"round"`
	Wrestler1   *Wrestler `json:"wrestler1"`
	Wrestler2   *Wrestler `json:"wrestler2"`
}

// Token is a payload field that is numeric on some endpoints and opaque on
// others. Text always holds the field exactly as it appeared.
type Token struct {
	Text    string
	Num     int64
	Numeric bool
}

func ParseToken(text string) Token {
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Token{Text: text}
	}
	return Token{Text: text, Num: n, Numeric: true}
}

func (t Token) String() string {
	return t.Text
}

func (t Token) MarshalJSON() ([]byte, error) {
	if t.Numeric {
		return json.Marshal(t.Num)
	}
	return json.Marshal(t.Text)
}

func (t *Token) UnmarshalJSON(data []byte) error {
	var n json.Number
	err := json.Unmarshal(data, &n)
	if err == nil {
		*t = ParseToken(n.String())
		return nil
	}
	var s string
	err = json.Unmarshal(data, &s)
	if err != nil {
		return err
	}
	*t = Token{Text: s}
	return nil
}

// visiblePageIds is the site's own convention for which bracket pages are
// shown by default.
var visiblePageIds = map[string]bool{"1": true, "2": true, "4": true, "6": true}

type BracketPage struct {
	Index    int    `json:"page_index"`
	ID       int64  `json:"page_id"`
	Name     string `json:"page_name"`
	ShowPage bool   `json:"show_page"`
}

type Template struct {
	Index     int           `json:"template_index"`
	BracketID int64         `json:"bracket_id"`
	ID        int64         `json:"template_id"`
	Name      string        `json:"template_name"`
	Width     Token         `json:"bracket_width"`
	Height    Token         `json:"bracket_height"`
	FontSize  Token         `json:"bracket_font"`
	Pages     []BracketPage `json:"pages"`
}

// VisiblePageIDs returns the ids of the pages shown by default, in page order.
func (t Template) VisiblePageIDs() []int64 {
	var ids []int64
	for _, p := range t.Pages {
		if p.ShowPage {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

type Weight struct {
	Index     int    `json:"weight_index"`
	ID        Token  `json:"weight_id"`
	Name      string `json:"weight_name"`
	BracketID int64  `json:"bracket_id"`
}

type BracketType struct {
	BracketID            int64 `json:"bracket_id"`
	DefaultTemplateIndex int   `json:"default_template_index"`
}

// BracketData is everything the bracket viewer page embeds about how brackets
// are displayed.
type BracketData struct {
	Templates    []Template    `json:"templates"`
	Weights      []Weight      `json:"weights"`
	BracketTypes []BracketType `json:"bracket_types"`
}

// TemplatesFor returns the templates associated with a bracket id. An id with
// no templates is orphaned, not invalid.
func (b BracketData) TemplatesFor(bracketId int64) []Template {
	var out []Template
	for _, t := range b.Templates {
		if t.BracketID == bracketId {
			out = append(out, t)
		}
	}
	return out
}

// Weight looks up a weight by its id token text.
func (b BracketData) Weight(id string) (Weight, bool) {
	for _, w := range b.Weights {
		if w.ID.Text == id {
			return w, true
		}
	}
	return Weight{}, false
}
