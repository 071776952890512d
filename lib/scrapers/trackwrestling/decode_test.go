package trackwrestling

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var pairSchema = Schema{
	Payload:   "pairs",
	Separator: "~",
	Fields: []Field{
		{Name: "id", Kind: FieldInt},
		{Name: "label", Kind: FieldString},
		{Name: "size", Kind: FieldToken},
	},
}

func TestDecodeDelimitedIndexes(t *testing.T) {
	raw := "1~one~10~2~two~wide~3~three~ 30"

	first, err := DecodeDelimited(raw, pairSchema)
	require.NoError(t, err)
	second, err := DecodeDelimited(raw, pairSchema)
	require.NoError(t, err)

	require.Len(t, first, 3)
	for i, r := range first {
		require.Equal(t, i, r.Index)
	}

	diff := cmp.Diff(first, second, cmp.AllowUnexported(Record{}))
	require.Empty(t, diff)

	require.Equal(t, int64(2), first[1].Int("id"))
	require.Equal(t, "two", first[1].String("label"))
	require.Equal(t, Token{Text: "wide"}, first[1].Token("size"))
	require.Equal(t, Token{Text: " 30", Num: 30, Numeric: true}, first[2].Token("size"))
}

func TestDecodeDelimitedEmpty(t *testing.T) {
	records, err := DecodeDelimited("", pairSchema)
	require.NoError(t, err)
	require.NotNil(t, records)
	require.Empty(t, records)

	_, err = SplitGroups("pairs", "", "~", 3)
	var empty *EmptyPayloadError
	require.ErrorAs(t, err, &empty)
	require.Equal(t, "pairs", empty.Payload)
}

func TestDecodeDelimitedMalformed(t *testing.T) {
	testCases := []struct {
		name   string
		raw    string
		record int
		field  string
	}{
		{
			name:   "one short of a full group",
			raw:    "1~one~10~2~two",
			record: 1,
		},
		{
			name:   "trailing garbage",
			raw:    "1~one~10~",
			record: 1,
		},
		{
			name:   "non numeric id",
			raw:    "1~one~10~x~two~20",
			record: 1,
			field:  "id",
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			records, err := DecodeDelimited(test.raw, pairSchema)
			require.Nil(t, records)

			var malformed *MalformedRecordError
			require.True(t, errors.As(err, &malformed), "expected *MalformedRecordError, got %v", err)
			require.Equal(t, "pairs", malformed.Payload)
			require.Equal(t, test.record, malformed.Record)
			require.Equal(t, test.field, malformed.Field)
			require.Contains(t, err.Error(), "pairs")
		})
	}
}

func TestRecordUnknownFieldPanics(t *testing.T) {
	records, err := DecodeDelimited("1~one~10", pairSchema)
	require.NoError(t, err)
	require.Panics(t, func() {
		records[0].String("missing")
	})
}

func TestSplitGroupsInvalidWidth(t *testing.T) {
	_, err := SplitGroups("pairs", "a~b", "~", 0)
	require.Error(t, err)
}
