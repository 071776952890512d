package trackwrestling

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocateBracketPayloads(t *testing.T) {
	testCases := []struct {
		name     string
		html     string
		expected BracketPayloads
	}{
		{
			name: "single block",
			html: `<script>var p = new Pile(); str = "a"; str = "b"; str = "c";</script>`,
			expected: BracketPayloads{
				Templates:    "a",
				Weights:      "b",
				BracketTypes: "c",
				Assignments:  3,
			},
		},
		{
			name: "split over marked blocks",
			html: `<script>var t = new Pile(); str = "a";</script>
				<script>var x = "str = \"ignored\"";</script>
				<script>var w = new  Pile( ); str = "b"; str = "c";</script>`,
			expected: BracketPayloads{
				Templates:    "a",
				Weights:      "b",
				BracketTypes: "c",
				Assignments:  3,
			},
		},
		{
			name: "fewer than 3 assignments",
			html: `<script>var t = new Pile(); str = "a"; str = "b";</script>`,
			expected: BracketPayloads{
				Templates:   "a",
				Weights:     "b",
				Assignments: 2,
			},
		},
		{
			name: "similar names are not assignments",
			html: `<script>new Pile(); xstr = "no"; obj.str = "no"; str="a"; str = "b\"q"; str = "c";</script>`,
			expected: BracketPayloads{
				Templates:    "a",
				Weights:      `b"q`,
				BracketTypes: "c",
				Assignments:  3,
			},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			doc, err := newDocument(test.html)
			require.NoError(t, err)
			payloads, err := LocateBracketPayloads(doc)
			require.NoError(t, err)
			require.Equal(t, test.expected, payloads)
		})
	}
}

func TestLocateScriptsNotFound(t *testing.T) {
	doc, err := newDocument(`<script>var a = 1;</script>`)
	require.NoError(t, err)

	_, err = LocateScripts(doc, "hub script", regexp.MustCompile(`hubData`))
	var notFound *PayloadNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "hub script", notFound.Payload)
}

func TestStrAssignmentsUnescape(t *testing.T) {
	require.Equal(t, []string{"a\nb", `c\d`}, StrAssignments(`str = "a\nb"; str = "c\\d";`))
	require.Equal(
		t,
		[]string{"Café A", "\U0001F93C", `\u12 done`},
		StrAssignments(`str = "Caf\u00e9 \x41"; str = "\ud83e\udd3c"; str = "\\u12 done";`),
	)
}
