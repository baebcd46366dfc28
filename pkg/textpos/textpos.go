// Package textpos defines the two coordinate spaces a formatting round trip
// crosses and the conversions between them.
//
// The external formatter speaks ByteOffset: positions in the UTF-8 encoded,
// LF-normalized document. The live document speaks TextPosition: rune
// indexes. The two are distinct types so one can never be passed where the
// other is expected without going through ToByteOffset or ToTextPosition.
package textpos

import (
	"errors"
	"fmt"
)

// ByteOffset is a zero-based index into the encoded bytes of a document.
type ByteOffset int

// IsValid reports whether the offset is non-negative.
func (o ByteOffset) IsValid() bool {
	return o >= 0
}

func (o ByteOffset) String() string {
	return fmt.Sprintf("byte %d", int(o))
}

// TextPosition is a zero-based rune index into the live document.
type TextPosition int

// IsValid reports whether the position is non-negative.
func (p TextPosition) IsValid() bool {
	return p >= 0
}

func (p TextPosition) String() string {
	return fmt.Sprintf("char %d", int(p))
}

// Exactness selects how ToTextPosition treats an offset that falls inside a
// multi-byte sequence.
type Exactness int

const (
	// Exact fails on an offset that is not on a rune boundary.
	Exact Exactness = iota

	// Approximate snaps to the nearest rune boundary.
	Approximate
)

func (e Exactness) String() string {
	if e == Approximate {
		return "approximate"
	}
	return "exact"
}

// Sentinel errors for coordinate translation.
var (
	// ErrOutOfRange indicates a coordinate outside the document's current bounds.
	ErrOutOfRange = errors.New("position out of range")

	// ErrMisaligned indicates a byte offset inside a multi-byte character
	// where an exact boundary was required.
	ErrMisaligned = errors.New("byte offset not on a character boundary")

	// ErrStalePosition indicates a caller-supplied position that no longer
	// exists in the document.
	ErrStalePosition = errors.New("stale position")
)
