// Package region describes the spans of a document handed to the formatter
// and builds the formatter's region arguments from them.
package region

import (
	"errors"
	"fmt"

	"github.com/yaklabco/regionfmt/pkg/textpos"
)

// ErrInvalidRegion indicates a region whose end precedes its start, or a
// line range that does not start at line 1 or later.
var ErrInvalidRegion = errors.New("invalid region")

// LineRange is an inclusive range of 1-based line numbers.
type LineRange struct {
	Start int
	End   int
}

// Validate reports an error if the range is malformed.
func (r LineRange) Validate() error {
	if r.Start < 1 {
		return fmt.Errorf("%w: line %d is before line 1", ErrInvalidRegion, r.Start)
	}
	if r.End < r.Start {
		return fmt.Errorf("%w: line range %s is inverted", ErrInvalidRegion, r)
	}
	return nil
}

func (r LineRange) String() string {
	return fmt.Sprintf("%d:%d", r.Start, r.End)
}

// ByteRange is a half-open byte range [Start, End).
type ByteRange struct {
	Start textpos.ByteOffset
	End   textpos.ByteOffset
}

// Len returns the number of bytes covered.
func (r ByteRange) Len() int {
	return int(r.End - r.Start)
}

// Validate reports an error if the range is malformed.
func (r ByteRange) Validate() error {
	if !r.Start.IsValid() {
		return fmt.Errorf("%w: negative start %d", ErrInvalidRegion, r.Start)
	}
	if r.End < r.Start {
		return fmt.Errorf("%w: byte range [%d,%d) is inverted", ErrInvalidRegion, r.Start, r.End)
	}
	return nil
}

// Span is a selection in the live document's native coordinates.
// A zero-width span asks the formatter to format the enclosing unit.
type Span struct {
	Start textpos.TextPosition
	End   textpos.TextPosition
}

// Validate reports an error if the span is malformed.
func (s Span) Validate() error {
	if !s.Start.IsValid() {
		return fmt.Errorf("%w: negative start %d", ErrInvalidRegion, s.Start)
	}
	if s.End < s.Start {
		return fmt.Errorf("%w: span [%d,%d) is inverted", ErrInvalidRegion, s.Start, s.End)
	}
	return nil
}

// Set is an insertion-ordered set of line ranges.
type Set struct {
	ranges []LineRange
	seen   map[LineRange]struct{}
}

// NewSet returns a set holding the given ranges.
func NewSet(ranges ...LineRange) *Set {
	set := &Set{seen: make(map[LineRange]struct{})}
	for _, r := range ranges {
		set.Add(r)
	}
	return set
}

// Add inserts r, reporting whether it was new.
func (s *Set) Add(r LineRange) bool {
	if s.seen == nil {
		s.seen = make(map[LineRange]struct{})
	}
	if _, ok := s.seen[r]; ok {
		return false
	}
	s.seen[r] = struct{}{}
	s.ranges = append(s.ranges, r)
	return true
}

// Len returns the number of distinct ranges.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ranges)
}

// Ranges returns the ranges in insertion order.
func (s *Set) Ranges() []LineRange {
	if s == nil {
		return nil
	}
	out := make([]LineRange, len(s.ranges))
	copy(out, s.ranges)
	return out
}
