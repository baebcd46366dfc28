package buffer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/regionfmt/pkg/buffer"
	"github.com/yaklabco/regionfmt/pkg/textpos"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		wantText string
		wantEOL  buffer.EOL
	}{
		{name: "lf content", content: "a\nb\n", wantText: "a\nb\n", wantEOL: buffer.EOLLF},
		{name: "crlf content", content: "a\r\nb\r\n", wantText: "a\nb\n", wantEOL: buffer.EOLCRLF},
		{name: "mixed content kept", content: "a\r\nb\n", wantText: "a\r\nb\n", wantEOL: buffer.EOLLF},
		{name: "no newline", content: "abc", wantText: "abc", wantEOL: buffer.EOLLF},
		{name: "empty", content: "", wantText: "", wantEOL: buffer.EOLLF},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			buf, eol := buffer.Load([]byte(testCase.content))
			assert.Equal(t, testCase.wantText, buf.String())
			assert.Equal(t, testCase.wantEOL, eol)
			assert.Equal(t, testCase.content, string(buf.Encode(eol)))
		})
	}
}

func TestBuffer_DeleteInsert(t *testing.T) {
	t.Parallel()

	buf := buffer.New("héllo wörld")
	require.Equal(t, 11, buf.Len())

	require.NoError(t, buf.Delete(1, 5))
	assert.Equal(t, "h wörld", buf.String())
	assert.Equal(t, 7, buf.Len())

	require.NoError(t, buf.Insert(1, "ëy"))
	assert.Equal(t, "hëy wörld", buf.String())
	assert.Equal(t, 9, buf.Len())

	assert.Error(t, buf.Delete(3, 2))
	assert.ErrorIs(t, buf.Delete(0, 99), textpos.ErrOutOfRange)
	assert.ErrorIs(t, buf.Insert(10, "x"), textpos.ErrOutOfRange)
	assert.Equal(t, "hëy wörld", buf.String(), "failed edits must not mutate")
}

func TestBuffer_CursorTracking(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cursor textpos.TextPosition
		edit   func(b *buffer.Buffer) error
		want   textpos.TextPosition
	}{
		{
			name:   "cursor after deletion shifts left",
			cursor: 8,
			edit:   func(b *buffer.Buffer) error { return b.Delete(2, 4) },
			want:   6,
		},
		{
			name:   "cursor inside deletion moves to start",
			cursor: 3,
			edit:   func(b *buffer.Buffer) error { return b.Delete(2, 5) },
			want:   2,
		},
		{
			name:   "cursor before deletion stays",
			cursor: 1,
			edit:   func(b *buffer.Buffer) error { return b.Delete(2, 5) },
			want:   1,
		},
		{
			name:   "cursor after insertion shifts right",
			cursor: 5,
			edit:   func(b *buffer.Buffer) error { return b.Insert(2, "€€") },
			want:   7,
		},
		{
			name:   "cursor at insertion point stays",
			cursor: 2,
			edit:   func(b *buffer.Buffer) error { return b.Insert(2, "xx") },
			want:   2,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			buf := buffer.New("0123456789")
			require.NoError(t, buf.SetCursor(testCase.cursor))
			require.NoError(t, testCase.edit(buf))
			assert.Equal(t, testCase.want, buf.Cursor())
		})
	}
}

func TestBuffer_SetCursorOutOfRange(t *testing.T) {
	t.Parallel()

	buf := buffer.New("abc")
	require.NoError(t, buf.SetCursor(3))
	assert.ErrorIs(t, buf.SetCursor(4), textpos.ErrOutOfRange)
	assert.ErrorIs(t, buf.SetCursor(-1), textpos.ErrOutOfRange)
	assert.Equal(t, textpos.TextPosition(3), buf.Cursor())
}

func TestBuffer_Translation(t *testing.T) {
	t.Parallel()

	buf := buffer.New("a€b")

	off, err := buf.ByteOffset(2)
	require.NoError(t, err)
	assert.Equal(t, textpos.ByteOffset(4), off)

	pos, err := buf.TextPosition(4, textpos.Exact)
	require.NoError(t, err)
	assert.Equal(t, textpos.TextPosition(2), pos)

	_, err = buf.TextPosition(2, textpos.Exact)
	assert.ErrorIs(t, err, textpos.ErrMisaligned)

	assert.Equal(t, textpos.ByteOffset(5), buf.ByteLen())
}
