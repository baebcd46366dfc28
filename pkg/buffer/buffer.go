// Package buffer provides the in-memory text store regionfmt edits.
//
// A Buffer holds LF-normalized text addressed by rune index
// (textpos.TextPosition) and a cursor. It is not safe for concurrent use;
// one formatting invocation owns a buffer at a time.
package buffer

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/yaklabco/regionfmt/pkg/textpos"
)

// EOL is the line ending style of the content a buffer was loaded from.
type EOL int

const (
	// EOLLF is Unix line endings; content is stored as-is.
	EOLLF EOL = iota

	// EOLCRLF is DOS line endings; content is stored with LF and restored on Encode.
	EOLCRLF
)

func (e EOL) String() string {
	if e == EOLCRLF {
		return "crlf"
	}
	return "lf"
}

// Buffer is a mutable rune-addressed document with a cursor.
type Buffer struct {
	text   string
	runes  int
	cursor textpos.TextPosition
}

// New creates a buffer holding text with the cursor at the start.
func New(text string) *Buffer {
	return &Buffer{
		text:  text,
		runes: utf8.RuneCountInString(text),
	}
}

// Load creates a buffer from file content. Content whose every newline is
// CRLF is normalized to LF and reported as EOLCRLF so Encode can restore it.
// Mixed line endings are kept verbatim.
func Load(content []byte) (*Buffer, EOL) {
	lf := bytes.Count(content, []byte("\n"))
	crlf := bytes.Count(content, []byte("\r\n"))
	if lf > 0 && lf == crlf {
		return New(string(bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n")))), EOLCRLF
	}
	return New(string(content)), EOLLF
}

// Encode returns the buffer content with the given line endings.
func (b *Buffer) Encode(eol EOL) []byte {
	if eol == EOLCRLF {
		return bytes.ReplaceAll([]byte(b.text), []byte("\n"), []byte("\r\n"))
	}
	return []byte(b.text)
}

// String returns the buffer text.
func (b *Buffer) String() string {
	return b.text
}

// Bytes returns a copy of the encoded buffer text.
func (b *Buffer) Bytes() []byte {
	return []byte(b.text)
}

// Len returns the number of characters in the buffer.
func (b *Buffer) Len() int {
	return b.runes
}

// ByteLen returns the encoded length of the buffer.
func (b *Buffer) ByteLen() textpos.ByteOffset {
	return textpos.ByteLen(b.text)
}

// Lines returns a line table over the current content.
func (b *Buffer) Lines() *textpos.Lines {
	return textpos.BuildLines([]byte(b.text))
}

// Cursor returns the cursor position.
func (b *Buffer) Cursor() textpos.TextPosition {
	return b.cursor
}

// SetCursor moves the cursor.
func (b *Buffer) SetCursor(pos textpos.TextPosition) error {
	if err := b.checkPosition(pos); err != nil {
		return err
	}
	b.cursor = pos
	return nil
}

// ByteOffset translates a character position to an encoded byte offset.
func (b *Buffer) ByteOffset(pos textpos.TextPosition) (textpos.ByteOffset, error) {
	return textpos.ToByteOffset(b.text, pos)
}

// TextPosition translates an encoded byte offset to a character position.
func (b *Buffer) TextPosition(off textpos.ByteOffset, mode textpos.Exactness) (textpos.TextPosition, error) {
	return textpos.ToTextPosition(b.text, off, mode)
}

// Delete removes the characters in [start, end). A cursor inside the deleted
// span moves to start; a cursor after it shifts left.
func (b *Buffer) Delete(start, end textpos.TextPosition) error {
	if end < start {
		return fmt.Errorf("%w: delete [%d,%d) is inverted", textpos.ErrOutOfRange, start, end)
	}
	startOff, err := b.ByteOffset(start)
	if err != nil {
		return fmt.Errorf("delete start: %w", err)
	}
	endOff, err := b.ByteOffset(end)
	if err != nil {
		return fmt.Errorf("delete end: %w", err)
	}

	b.text = b.text[:startOff] + b.text[endOff:]
	removed := int(end - start)
	b.runes = utf8.RuneCountInString(b.text)

	switch {
	case b.cursor >= end:
		b.cursor -= textpos.TextPosition(removed)
	case b.cursor > start:
		b.cursor = start
	}
	return nil
}

// Insert places text before the character at pos. A cursor after pos shifts
// right; a cursor at pos stays in front of the inserted text.
func (b *Buffer) Insert(pos textpos.TextPosition, text string) error {
	off, err := b.ByteOffset(pos)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	if text == "" {
		return nil
	}

	b.text = b.text[:off] + text + b.text[off:]
	added := utf8.RuneCountInString(text)
	b.runes = utf8.RuneCountInString(b.text)

	if b.cursor > pos {
		b.cursor += textpos.TextPosition(added)
	}
	return nil
}

func (b *Buffer) checkPosition(pos textpos.TextPosition) error {
	if pos < 0 || int(pos) > b.runes {
		return fmt.Errorf("%w: %s outside [0, %d]", textpos.ErrOutOfRange, pos, b.runes)
	}
	return nil
}
