package textpos_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/regionfmt/pkg/textpos"
)

func TestBuildLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected []textpos.LineInfo
	}{
		{
			name:     "empty content",
			content:  "",
			expected: nil,
		},
		{
			name:    "single line no newline",
			content: "hello",
			expected: []textpos.LineInfo{
				{Start: 0, NewlineStart: 5, End: 5},
			},
		},
		{
			name:    "single line with LF",
			content: "hello\n",
			expected: []textpos.LineInfo{
				{Start: 0, NewlineStart: 5, End: 6},
				{Start: 6, NewlineStart: 6, End: 6},
			},
		},
		{
			name:    "single line with CRLF",
			content: "hello\r\n",
			expected: []textpos.LineInfo{
				{Start: 0, NewlineStart: 5, End: 7},
				{Start: 7, NewlineStart: 7, End: 7},
			},
		},
		{
			name:    "multiple lines LF",
			content: "line1\nline2\nline3",
			expected: []textpos.LineInfo{
				{Start: 0, NewlineStart: 5, End: 6},
				{Start: 6, NewlineStart: 11, End: 12},
				{Start: 12, NewlineStart: 17, End: 17},
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			lines := textpos.BuildLines([]byte(testCase.content))
			require.Equal(t, len(testCase.expected), lines.Count())
			for idx, want := range testCase.expected {
				got, ok := lines.Info(idx + 1)
				require.True(t, ok)
				assert.Equal(t, want, got, "line %d", idx+1)
			}
		})
	}
}

func TestLines_LineAt(t *testing.T) {
	t.Parallel()

	lines := textpos.BuildLines([]byte("ab\ncd\n"))

	tests := []struct {
		off      textpos.ByteOffset
		wantLine int
		wantCol  int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{5, 2, 3},
		{6, 3, 1},
	}

	for _, testCase := range tests {
		line, col, err := lines.LineAt(testCase.off)
		require.NoError(t, err)
		assert.Equal(t, testCase.wantLine, line, "line for %d", testCase.off)
		assert.Equal(t, testCase.wantCol, col, "column for %d", testCase.off)
	}

	_, _, err := lines.LineAt(7)
	assert.True(t, errors.Is(err, textpos.ErrOutOfRange))
}

func TestLines_Span(t *testing.T) {
	t.Parallel()

	lines := textpos.BuildLines([]byte("one\ntwo\nthree\n"))

	start, end, err := lines.Span(2, 3)
	require.NoError(t, err)
	assert.Equal(t, textpos.ByteOffset(4), start)
	assert.Equal(t, textpos.ByteOffset(14), end)

	_, _, err = lines.Span(3, 2)
	assert.ErrorIs(t, err, textpos.ErrOutOfRange)

	_, _, err = lines.Span(1, 9)
	assert.ErrorIs(t, err, textpos.ErrOutOfRange)
}
