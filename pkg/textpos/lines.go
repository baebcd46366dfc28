package textpos

import (
	"fmt"
	"sort"
)

// LineInfo records where one line sits in the encoded document.
type LineInfo struct {
	// Start is the offset of the first byte of the line.
	Start ByteOffset

	// NewlineStart is the offset of the line terminator, or End when the
	// line has none.
	NewlineStart ByteOffset

	// End is the offset just past the line terminator.
	End ByteOffset
}

// Lines is a line table over encoded content.
type Lines struct {
	infos []LineInfo
	size  ByteOffset
}

// BuildLines constructs a line table from content.
// It handles both LF (\n) and CRLF (\r\n) line endings. A trailing newline
// opens an empty final line, matching how editors number lines.
func BuildLines(content []byte) *Lines {
	lines := &Lines{size: ByteOffset(len(content))}
	if len(content) == 0 {
		return lines
	}

	lineStart := 0
	for idx, char := range content {
		if char != '\n' {
			continue
		}
		newlineStart := idx
		if idx > 0 && content[idx-1] == '\r' {
			newlineStart = idx - 1
		}
		lines.infos = append(lines.infos, LineInfo{
			Start:        ByteOffset(lineStart),
			NewlineStart: ByteOffset(newlineStart),
			End:          ByteOffset(idx + 1),
		})
		lineStart = idx + 1
	}

	lines.infos = append(lines.infos, LineInfo{
		Start:        ByteOffset(lineStart),
		NewlineStart: ByteOffset(len(content)),
		End:          ByteOffset(len(content)),
	})

	return lines
}

// Count returns the number of lines.
func (l *Lines) Count() int {
	return len(l.infos)
}

// Info returns the line table entry for a 1-based line number.
func (l *Lines) Info(line int) (LineInfo, bool) {
	if line < 1 || line > len(l.infos) {
		return LineInfo{}, false
	}
	return l.infos[line-1], true
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Column counts bytes, not runes.
func (l *Lines) LineAt(off ByteOffset) (int, int, error) {
	if off < 0 || off > l.size {
		return 0, 0, fmt.Errorf("%w: %s outside [0, %d]", ErrOutOfRange, off, l.size)
	}
	if len(l.infos) == 0 {
		return 1, 1, nil
	}

	lineIdx := sort.Search(len(l.infos), func(i int) bool {
		return l.infos[i].End > off
	})
	if lineIdx >= len(l.infos) {
		lineIdx = len(l.infos) - 1
	}

	info := l.infos[lineIdx]
	return lineIdx + 1, int(off-info.Start) + 1, nil
}

// Span returns the byte range [start, end) covering 1-based lines first
// through last inclusive, terminators included.
func (l *Lines) Span(first, last int) (ByteOffset, ByteOffset, error) {
	if last < first {
		return 0, 0, fmt.Errorf("%w: line range %d:%d is inverted", ErrOutOfRange, first, last)
	}
	if len(l.infos) == 0 && first == 1 && last == 1 {
		return 0, 0, nil
	}
	startInfo, ok := l.Info(first)
	if !ok {
		return 0, 0, fmt.Errorf("%w: line %d of %d", ErrOutOfRange, first, len(l.infos))
	}
	endInfo, ok := l.Info(last)
	if !ok {
		return 0, 0, fmt.Errorf("%w: line %d of %d", ErrOutOfRange, last, len(l.infos))
	}
	return startInfo.Start, endInfo.End, nil
}
