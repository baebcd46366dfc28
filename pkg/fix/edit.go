// Package fix models the edits a formatter proposes and applies them.
package fix

import (
	"fmt"

	"github.com/yaklabco/regionfmt/pkg/textpos"
)

// Edit deletes Length bytes at Offset, then inserts Text at that point.
// An empty Text makes the edit a pure deletion.
type Edit struct {
	// Offset is the byte offset where the edit begins.
	Offset textpos.ByteOffset

	// Length is the number of bytes removed.
	Length int

	// Text is inserted after the removal.
	Text string
}

// End returns the offset just past the removed bytes.
func (e Edit) End() textpos.ByteOffset {
	return e.Offset + textpos.ByteOffset(e.Length)
}

// IsInsertion reports whether the edit removes nothing.
func (e Edit) IsInsertion() bool {
	return e.Length == 0
}

func (e Edit) String() string {
	return fmt.Sprintf("[%d+%d]%q", e.Offset, e.Length, e.Text)
}

// Builder accumulates edits.
type Builder struct {
	edits []Edit
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{edits: make([]Edit, 0)}
}

// Replace adds an edit that replaces length bytes at offset with text.
func (b *Builder) Replace(offset textpos.ByteOffset, length int, text string) {
	b.edits = append(b.edits, Edit{Offset: offset, Length: length, Text: text})
}

// Insert adds an edit that inserts text at offset.
func (b *Builder) Insert(offset textpos.ByteOffset, text string) {
	b.Replace(offset, 0, text)
}

// Delete adds an edit that removes length bytes at offset.
func (b *Builder) Delete(offset textpos.ByteOffset, length int) {
	b.Replace(offset, length, "")
}

// Len returns the number of accumulated edits.
func (b *Builder) Len() int {
	return len(b.edits)
}

// Edits returns the accumulated edits in insertion order.
func (b *Builder) Edits() []Edit {
	out := make([]Edit, len(b.edits))
	copy(out, b.edits)
	return out
}
