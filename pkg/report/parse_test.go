package report_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/regionfmt/pkg/fix"
	"github.com/yaklabco/regionfmt/pkg/report"
	"github.com/yaklabco/regionfmt/pkg/textpos"
)

const header = "<?xml version='1.0'?>\n"

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		input          string
		wantEdits      []fix.Edit
		wantCursor     *int
		wantIncomplete bool
	}{
		{
			name: "typical report",
			input: header + "<replacements xml:space='preserve' incomplete_format='false'>\n" +
				"<replacement offset='5' length='1'> = </replacement>\n" +
				"</replacements>\n",
			wantEdits: []fix.Edit{{Offset: 5, Length: 1, Text: " = "}},
		},
		{
			name: "edits sorted by descending offset",
			input: "<replacements>" +
				"<replacement offset='10' length='2'>a</replacement>" +
				"<replacement offset='20' length='3'>b</replacement>" +
				"</replacements>",
			wantEdits: []fix.Edit{{Offset: 20, Length: 3, Text: "b"}, {Offset: 10, Length: 2, Text: "a"}},
		},
		{
			name: "descending input stays descending",
			input: "<replacements>" +
				"<replacement offset='20' length='3'>b</replacement>" +
				"<replacement offset='10' length='2'>a</replacement>" +
				"</replacements>",
			wantEdits: []fix.Edit{{Offset: 20, Length: 3, Text: "b"}, {Offset: 10, Length: 2, Text: "a"}},
		},
		{
			name: "mixed input order",
			input: "<replacements>" +
				"<replacement offset='10' length='0'>a</replacement>" +
				"<replacement offset='30' length='1'>c</replacement>" +
				"<replacement offset='0' length='2'/>" +
				"<replacement offset='20' length='1'>b</replacement>" +
				"</replacements>",
			wantEdits: []fix.Edit{
				{Offset: 30, Length: 1, Text: "c"},
				{Offset: 20, Length: 1, Text: "b"},
				{Offset: 10, Text: "a"},
				{Offset: 0, Length: 2},
			},
		},
		{
			name: "equal offsets sorted by descending length",
			input: "<replacements>" +
				"<replacement offset='4' length='0'>x</replacement>" +
				"<replacement offset='4' length='2'></replacement>" +
				"</replacements>",
			wantEdits: []fix.Edit{{Offset: 4, Length: 2}, {Offset: 4, Text: "x"}},
		},
		{
			name: "escaped line endings",
			input: "<replacements>" +
				"<replacement offset='3' length='1'>&#13;&#10;  </replacement>" +
				"</replacements>",
			wantEdits: []fix.Edit{{Offset: 3, Length: 1, Text: "\r\n  "}},
		},
		{
			name:      "self-closing replacement deletes",
			input:     "<replacements><replacement offset='1' length='2'/></replacements>",
			wantEdits: []fix.Edit{{Offset: 1, Length: 2}},
		},
		{
			name:      "cdata joins adjacent text",
			input:     "<replacements><replacement offset='0' length='0'>a<![CDATA[<b>]]></replacement></replacements>",
			wantEdits: []fix.Edit{{Offset: 0, Text: "a<b>"}},
		},
		{
			name:       "cursor last wins",
			input:      "<replacements><cursor>3</cursor><cursor> 9 </cursor></replacements>",
			wantEdits:  []fix.Edit{},
			wantCursor: intPtr(9),
		},
		{
			name:           "incomplete with no edits",
			input:          "<replacements incomplete_format='true'></replacements>",
			wantEdits:      []fix.Edit{},
			wantIncomplete: true,
		},
		{
			name:      "incomplete flag is case sensitive",
			input:     "<replacements incomplete_format='TRUE'/>",
			wantEdits: []fix.Edit{},
		},
		{
			name:      "comments are ignored",
			input:     "<!-- head --><replacements><!-- inside --></replacements><!-- tail -->",
			wantEdits: []fix.Edit{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rep, err := report.Parse(strings.NewReader(tt.input))
			require.NoError(t, err)

			assert.Equal(t, tt.wantEdits, rep.Edits)
			assert.Equal(t, tt.wantIncomplete, rep.Incomplete)
			if tt.wantCursor == nil {
				assert.Nil(t, rep.Cursor)
			} else {
				require.NotNil(t, rep.Cursor)
				assert.Equal(t, textpos.ByteOffset(*tt.wantCursor), *rep.Cursor)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "whitespace only", input: "  \n"},
		{name: "wrong root", input: "<edits></edits>"},
		{name: "missing length", input: "<replacements><replacement offset='1'>x</replacement></replacements>"},
		{name: "missing offset", input: "<replacements><replacement length='1'>x</replacement></replacements>"},
		{name: "non-numeric offset", input: "<replacements><replacement offset='one' length='1'/></replacements>"},
		{name: "negative length", input: "<replacements><replacement offset='1' length='-1'/></replacements>"},
		{name: "offset plus length overflows", input: "<replacements><replacement offset='1' length='9223372036854775807'/></replacements>"},
		{name: "huge length overlaps", input: "<replacements>" +
			"<replacement offset='5' length='1'> = </replacement>" +
			"<replacement offset='1' length='9223372036854775806'/></replacements>"},
		{name: "unknown attribute", input: "<replacements><replacement offset='1' length='1' style='x'/></replacements>"},
		{name: "nested element", input: "<replacements><replacement offset='1' length='1'><b>x</b></replacement></replacements>"},
		{name: "two text payloads", input: "<replacements><replacement offset='1' length='1'>a<!--c-->b</replacement></replacements>"},
		{name: "unknown child", input: "<replacements><format/></replacements>"},
		{name: "text under root", input: "<replacements>stray</replacements>"},
		{name: "second root", input: "<replacements/><replacements/>"},
		{name: "trailing text", input: "<replacements/>junk"},
		{name: "truncated", input: "<replacements><replacement offset='1' length='1'>x"},
		{name: "unclosed root", input: "<replacements>"},
		{name: "bad cursor", input: "<replacements><cursor>here</cursor></replacements>"},
		{name: "cursor with child", input: "<replacements><cursor><n>1</n></cursor></replacements>"},
		{name: "overlapping replacements", input: "<replacements>" +
			"<replacement offset='2' length='4'/><replacement offset='4' length='4'/></replacements>"},
		{name: "not xml", input: "clang-format: error: unknown style"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rep, err := report.Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Nil(t, rep)
			assert.ErrorIs(t, err, report.ErrMalformedReport)

			var merr *report.MalformedError
			require.ErrorAs(t, err, &merr)
			assert.NotEmpty(t, merr.Reason)
		})
	}
}

func TestParse_OverlapCarriesConflict(t *testing.T) {
	t.Parallel()

	_, err := report.Parse(strings.NewReader(
		"<replacements><replacement offset='2' length='4'/><replacement offset='2' length='1'/></replacements>"))

	var cerr *fix.ConflictError
	require.ErrorAs(t, err, &cerr)
}

func intPtr(n int) *int {
	return &n
}
