package region

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/yaklabco/regionfmt/pkg/textpos"
)

// PositionMapper translates between a document's two coordinate spaces.
type PositionMapper interface {
	ByteOffset(pos textpos.TextPosition) (textpos.ByteOffset, error)
	TextPosition(off textpos.ByteOffset, mode textpos.Exactness) (textpos.TextPosition, error)
}

// Request is the set of regions one formatter invocation operates on.
// It is either all line ranges or all byte ranges, never both.
type Request struct {
	lines []LineRange
	bytes []ByteRange
}

// ByLine reports whether the request addresses lines.
func (r Request) ByLine() bool {
	return len(r.lines) > 0
}

// IsEmpty reports whether the request carries no regions.
func (r Request) IsEmpty() bool {
	return len(r.lines) == 0 && len(r.bytes) == 0
}

// Lines returns the line ranges of a line request.
func (r Request) Lines() []LineRange {
	return append([]LineRange(nil), r.lines...)
}

// Bytes returns the byte ranges of an offset request.
func (r Request) Bytes() []ByteRange {
	return append([]ByteRange(nil), r.bytes...)
}

// Args renders the request as formatter arguments: one -lines=S:E per line
// range, or one -offset=N -length=M pair per byte range.
func (r Request) Args() []string {
	if r.ByLine() {
		args := make([]string, 0, len(r.lines))
		for _, lr := range r.lines {
			args = append(args, "-lines="+lr.String())
		}
		return args
	}

	args := make([]string, 0, 2*len(r.bytes))
	for _, br := range r.bytes {
		args = append(args,
			"-offset="+strconv.Itoa(int(br.Start)),
			"-length="+strconv.Itoa(br.Len()),
		)
	}
	return args
}

// LineRequest passes line ranges through unchanged.
func LineRequest(ranges ...LineRange) (Request, error) {
	lines := make([]LineRange, 0, len(ranges))
	for _, lr := range ranges {
		if err := lr.Validate(); err != nil {
			return Request{}, err
		}
		lines = append(lines, lr)
	}
	return Request{lines: lines}, nil
}

// ByteRequest builds an offset request from ranges already in byte space.
func ByteRequest(ranges ...ByteRange) (Request, error) {
	bytes := make([]ByteRange, 0, len(ranges))
	for _, br := range ranges {
		if err := br.Validate(); err != nil {
			return Request{}, err
		}
		bytes = append(bytes, br)
	}
	return Request{bytes: bytes}, nil
}

// SpanRequest converts native selections into an offset request.
// A position the document no longer holds fails the whole request with
// textpos.ErrStalePosition; no partial request is returned.
func SpanRequest(doc PositionMapper, spans ...Span) (Request, error) {
	bytes := make([]ByteRange, 0, len(spans))
	for _, span := range spans {
		if err := span.Validate(); err != nil {
			return Request{}, err
		}
		start, err := toByteOffset(doc, span.Start)
		if err != nil {
			return Request{}, err
		}
		end, err := toByteOffset(doc, span.End)
		if err != nil {
			return Request{}, err
		}
		bytes = append(bytes, ByteRange{Start: start, End: end})
	}
	return Request{bytes: bytes}, nil
}

// SelectionSpans snaps user-supplied byte selections onto character
// boundaries. A selection edge that falls inside a multi-byte character moves
// to the nearest boundary.
func SelectionSpans(doc PositionMapper, selections ...ByteRange) ([]Span, error) {
	spans := make([]Span, 0, len(selections))
	for _, sel := range selections {
		if err := sel.Validate(); err != nil {
			return nil, err
		}
		start, err := doc.TextPosition(sel.Start, textpos.Approximate)
		if err != nil {
			return nil, fmt.Errorf("%w: selection start: %w", textpos.ErrStalePosition, err)
		}
		end, err := doc.TextPosition(sel.End, textpos.Approximate)
		if err != nil {
			return nil, fmt.Errorf("%w: selection end: %w", textpos.ErrStalePosition, err)
		}
		spans = append(spans, Span{Start: start, End: end})
	}
	return spans, nil
}

func toByteOffset(doc PositionMapper, pos textpos.TextPosition) (textpos.ByteOffset, error) {
	off, err := doc.ByteOffset(pos)
	if err == nil {
		return off, nil
	}
	if errors.Is(err, textpos.ErrOutOfRange) {
		return 0, fmt.Errorf("%w: %s: %w", textpos.ErrStalePosition, pos, err)
	}
	return 0, fmt.Errorf("translate %s: %w", pos, err)
}
