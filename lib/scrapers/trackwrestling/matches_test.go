package trackwrestling

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	_ "embed"
)

//go:embed testdata/matches.html
var matchesHtml string

func TestInferStatus(t *testing.T) {
	testCases := []struct {
		style    string
		expected Status
	}{
		{style: "background-color:#006600", expected: StatusInProgress},
		{style: "background-color:#00ff66", expected: StatusInProgress},
		{style: "background-color:yellow", expected: StatusOnDeck},
		{style: "background-color:#000000", expected: StatusInHole},
		{style: "BACKGROUND-COLOR: #00FF66;", expected: StatusInProgress},
		{style: "background-color: #FFFF00", expected: StatusOnDeck},
		{style: "background-color: rgb(255, 255, 0)", expected: StatusOnDeck},
		{style: "", expected: StatusInHole},
	}

	for _, test := range testCases {
		t.Run(test.style, func(t *testing.T) {
			require.Equal(t, test.expected, InferStatus(test.style))
		})
	}
}

func TestParseMatches(t *testing.T) {
	matches, err := ParseMatches(matchesHtml)
	require.NoError(t, err)

	expected := []Match{
		{
			Mat:         3,
			Bout:        1012,
			Status:      StatusInProgress,
			WeightClass: "106",
			Round:       "Champ. Rd of 16",
			Wrestler1: &Wrestler{
				ID:        "29384756132",
				FirstName: "John",
				LastName:  "Smith",
				Team:      Team{ID: "771234132", Name: "Central High School", ShortName: "CHS"},
				Record:    ptr("12-3"),
				Year:      ptr("Sr"),
			},
			Wrestler2: &Wrestler{
				ID:        "29384756200",
				FirstName: "Mark",
				LastName:  "Jones",
				Team:      Team{ID: "771234200", Name: "Lincoln", ShortName: "LHS"},
				Record:    ptr("8-4"),
				Year:      ptr("Fr"),
			},
		},
		{
			Mat:         1,
			Bout:        5,
			Status:      StatusOnDeck,
			WeightClass: "120",
			Wrestler1: &Wrestler{
				ID:        "29384756301",
				FirstName: "Alex",
				LastName:  "Franklin",
				Team:      Team{ID: "771234301", Name: "Eastside", ShortName: "EHS"},
				Record:    ptr("20-1"),
				Year:      ptr("Jr"),
			},
			Wrestler2: &Wrestler{
				ID:        "29384756302",
				FirstName: "Ben",
				LastName:  "Stone",
				Team:      Team{ID: "771234302", Name: "Westside", ShortName: "WHS"},
				Record:    ptr("15-6"),
				Year:      ptr("So"),
			},
		},
		{
			Mat:         2,
			Bout:        7,
			Status:      StatusInHole,
			WeightClass: "285",
			Wrestler1: &Wrestler{
				ID:        "29384756400",
				FirstName: "Tyler",
				LastName:  "Brooks",
				Team:      Team{ID: "771234400", Name: "North", ShortName: "NHS"},
			},
		},
	}
	if diff := cmp.Diff(expected, matches); diff != "" {
		t.Fatalf("matches mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMatchesBareRows(t *testing.T) {
	fragment := `<tr><td style="background-color:#006600"></td><td>Mat 9 Bout 12</td><td>no wrestlers yet</td></tr>`
	matches, err := ParseMatches(fragment)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, 9, matches[0].Mat)
	require.Equal(t, 12, matches[0].Bout)
	require.Equal(t, StatusInProgress, matches[0].Status)
	require.Empty(t, matches[0].Round)
	require.Nil(t, matches[0].Wrestler1)
	require.Nil(t, matches[0].Wrestler2)
}

func TestParseWrestlerWithoutFont(t *testing.T) {
	fragment := `<table><tr>
		<td></td>
		<td>Mat 1</td>
		<td><div data-wrestler-id="5" data-team-id="6"><span data-short-title="Sa">Sam</span> <span data-short-title="Lee">Lee</span> <span data-short-title="SHS">(Southside)</span></div></td>
	</tr></table>`
	matches, err := ParseMatches(fragment)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	m := matches[0]
	require.Equal(t, 1, m.Mat)
	require.Equal(t, 0, m.Bout)
	require.NotNil(t, m.Wrestler1)
	require.Equal(t, "Sam Lee", m.Wrestler1.Name())
	require.Equal(t, Team{ID: "6", Name: "Southside", ShortName: "SHS"}, m.Wrestler1.Team)
	require.Nil(t, m.Wrestler1.Record)
}

func TestParseWrestlerAdjacentSpans(t *testing.T) {
	fragment := `<tr>
		<td></td>
		<td>Mat 3 Bout 21</td>
		<td>
			<font data-wrestler-id="11" data-team-id="12"><span data-short-title="Jo">John</span> <span data-short-title="Smith">Smith</span> (<span data-short-title="CEN">Central</span>)<span>12-3</span><span>Sr</span></font>
			<font data-wrestler-id="13" data-team-id="14"><span data-short-title="Al">Al</span> <span data-short-title="Jones">Jones</span> (<span data-short-title="WST">West</span>)<span>4-4</span><span>Franklin</span></font>
		</td>
	</tr>`
	matches, err := ParseMatches(fragment)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	first := matches[0].Wrestler1
	require.NotNil(t, first)
	require.Equal(t, ptr("12-3"), first.Record)
	require.Equal(t, ptr("Sr"), first.Year)
	require.Equal(t, "Central", first.Team.Name)

	second := matches[0].Wrestler2
	require.NotNil(t, second)
	require.Equal(t, ptr("4-4"), second.Record)
	require.Nil(t, second.Year)
}

func TestParseMatchesSkipsNestedRows(t *testing.T) {
	fragment := `<table><tr>
		<td style="background-color:yellow"></td>
		<td>Mat 4 Bout 8</td>
		<td><table><tr><td>a</td><td>b</td><td>c</td></tr></table></td>
	</tr></table>`
	matches, err := ParseMatches(fragment)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, 4, matches[0].Mat)
	require.Equal(t, 8, matches[0].Bout)
	require.Equal(t, StatusOnDeck, matches[0].Status)
}
