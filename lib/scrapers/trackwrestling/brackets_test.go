package trackwrestling

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	_ "embed"
)

//go:embed testdata/bracket_viewer.html
var bracketViewerHtml string

func TestParseBracketPayload(t *testing.T) {
	data, err := ParseBracketPayload(bracketViewerHtml)
	require.NoError(t, err)

	expectedTemplates := []Template{
		{
			Index:     0,
			BracketID: 100,
			ID:        1,
			Name:      "Championship",
			Width:     Token{Text: "670", Num: 670, Numeric: true},
			Height:    Token{Text: "870", Num: 870, Numeric: true},
			FontSize:  Token{Text: "8", Num: 8, Numeric: true},
			Pages: []BracketPage{
				{Index: 0, ID: 1, Name: "Top", ShowPage: true},
				{Index: 1, ID: 3, Name: "Consolation", ShowPage: false},
				{Index: 2, ID: 4, Name: "Bottom", ShowPage: true},
			},
		},
		{
			Index:     1,
			BracketID: 200,
			ID:        2,
			Name:      "Dual Meet",
			Width:     Token{Text: "700", Num: 700, Numeric: true},
			Height:    Token{Text: "900", Num: 900, Numeric: true},
			FontSize:  Token{Text: "9", Num: 9, Numeric: true},
			Pages: []BracketPage{
				{Index: 0, ID: 2, Name: "Main", ShowPage: true},
			},
		},
	}
	if diff := cmp.Diff(expectedTemplates, data.Templates); diff != "" {
		t.Fatalf("templates mismatch (-want +got):\n%s", diff)
	}

	expectedWeights := []Weight{
		{Index: 0, ID: Token{Text: "w1a"}, Name: "106 lbs", BracketID: 100},
		{Index: 1, ID: Token{Text: "1227847138", Num: 1227847138, Numeric: true}, Name: "113 lbs", BracketID: 100},
		{Index: 2, ID: Token{Text: "1227847139", Num: 1227847139, Numeric: true}, Name: "120 lbs", BracketID: 300},
	}
	if diff := cmp.Diff(expectedWeights, data.Weights); diff != "" {
		t.Fatalf("weights mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, []BracketType{{BracketID: 100}, {BracketID: 200}}, data.BracketTypes)

	require.Len(t, data.TemplatesFor(100), 1)
	require.Empty(t, data.TemplatesFor(300))
	require.Equal(t, []int64{1, 4}, data.Templates[0].VisiblePageIDs())

	weight, ok := data.Weight("w1a")
	require.True(t, ok)
	require.Equal(t, "106 lbs", weight.Name)
	_, ok = data.Weight("missing")
	require.False(t, ok)
}

func TestPageVisibility(t *testing.T) {
	pages, err := DecodePages("3,Consolation,4,Bottom")
	require.NoError(t, err)
	require.Len(t, pages, 2)
	require.False(t, pages[0].ShowPage)
	require.True(t, pages[1].ShowPage)
}

func TestParseBracketPayloadNotFound(t *testing.T) {
	html := `<html><head><script>var str = "1~2~3";</script></head><body></body></html>`
	_, err := ParseBracketPayload(html)

	var notFound *PayloadNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, BracketScriptMarker, notFound.Marker)
}

func TestParseBracketPayloadEmpty(t *testing.T) {
	html := `<script>var p = new Pile(); str = ""; str = ""; str = "";</script>`
	data, err := ParseBracketPayload(html)
	require.NoError(t, err)
	require.Empty(t, data.Templates)
	require.Empty(t, data.Weights)
	require.Empty(t, data.BracketTypes)
}

func TestParseBracketPayloadMalformed(t *testing.T) {
	testCases := []struct {
		name    string
		script  string
		payload string
		record  int
	}{
		{
			name:    "template group cut short",
			script:  `new Pile(); str = "100~1~Championship~670~870~8~1,Top~200~2"; str = ""; str = "";`,
			payload: "templates",
			record:  1,
		},
		{
			name:    "odd page list",
			script:  `new Pile(); str = "100~1~Championship~670~870~8~1,Top,3"; str = ""; str = "";`,
			payload: "templates",
			record:  0,
		},
		{
			name:    "weights with trailing separator",
			script:  `new Pile(); str = ""; str = "1~106~100~"; str = "";`,
			payload: "weights",
			record:  1,
		},
		{
			name:    "non numeric bracket type",
			script:  `new Pile(); str = ""; str = ""; str = "100,abc";`,
			payload: "bracket types",
			record:  1,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseBracketPayload("<script>" + test.script + "</script>")

			var malformed *MalformedRecordError
			require.ErrorAs(t, err, &malformed)
			require.Equal(t, test.payload, malformed.Payload)
			require.Equal(t, test.record, malformed.Record)
		})
	}
}
