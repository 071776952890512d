package commands

import (
	"fmt"
	"io"
	"strings"
	tw "trackwrestling-backend/lib/scrapers/trackwrestling"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dates(t tw.Tournament) string {
	if t.EndDate == nil {
		return t.StartDate.String()
	}
	return fmt.Sprintf("%s - %s", t.StartDate, t.EndDate)
}

func location(t tw.Tournament) string {
	var parts []string
	for _, p := range []*string{t.VenueCity, t.VenueState, t.VenueZip} {
		if p != nil {
			parts = append(parts, *p)
		}
	}
	return strings.Join(parts, " ")
}

func renderTournaments(out io.Writer, tournaments []tw.Tournament) {
	t := newTable(out)
	t.AppendHeader(table.Row{"ID", "Type", "Name", "Dates", "Venue", "Location"})
	for _, tournament := range tournaments {
		t.AppendRow(table.Row{
			tournament.ID,
			tournament.EventType,
			tournament.Name,
			dates(tournament),
			deref(tournament.VenueName),
			location(tournament),
		})
	}
	t.Render()
}

func renderTournament(out io.Writer, tournament tw.Tournament) {
	t := newTable(out)
	t.AppendRows([]table.Row{
		{"ID", tournament.ID},
		{"Type", tournament.EventType},
		{"Name", tournament.Name},
		{"Dates", dates(tournament)},
		{"Venue", deref(tournament.VenueName)},
		{"Location", location(tournament)},
		{"Logo", deref(tournament.LogoUrl)},
		{"Flyer", deref(tournament.FlyerUrl)},
		{"Website", deref(tournament.WebsiteUrl)},
	})
	t.Render()
}

func wrestlerCell(w *tw.Wrestler) string {
	if w == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(w.Name())
	if w.Team.Name != "" {
		fmt.Fprintf(&b, " (%s)", w.Team.Name)
	}
	if w.Record != nil {
		fmt.Fprintf(&b, " %s", *w.Record)
	}
	if w.Year != nil {
		fmt.Fprintf(&b, " %s", *w.Year)
	}
	return b.String()
}

func renderMatches(out io.Writer, matches []tw.Match) {
	t := newTable(out)
	t.AppendHeader(table.Row{"Mat", "Bout", "Status", "Weight", "Round", "Wrestler 1", "Wrestler 2"})
	for _, m := range matches {
		t.AppendRow(table.Row{
			m.Mat,
			m.Bout,
			m.Status,
			m.WeightClass,
			m.Round,
			wrestlerCell(m.Wrestler1),
			wrestlerCell(m.Wrestler2),
		})
	}
	t.Render()
}

func renderBrackets(out io.Writer, data tw.BracketData) {
	t := newTable(out)
	t.AppendHeader(table.Row{"#", "Weight ID", "Weight", "Bracket", "Templates", "Pages"})
	for _, w := range data.Weights {
		var names []string
		var pages []string
		for _, template := range data.TemplatesFor(w.BracketID) {
			names = append(names, template.Name)
			for _, id := range template.VisiblePageIDs() {
				pages = append(pages, fmt.Sprint(id))
			}
		}
		t.AppendRow(table.Row{
			w.Index,
			w.ID,
			w.Name,
			w.BracketID,
			strings.Join(names, ", "),
			strings.Join(pages, ","),
		})
	}
	t.Render()
}
