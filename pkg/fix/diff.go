package fix

import (
	"fmt"
	"strings"

	"github.com/yaklabco/regionfmt/pkg/textpos"
)

// Diff is a unified diff derived from a set of edits.
type Diff struct {
	// Path is the file path for the diff header.
	Path string

	// Original is the content the edits were computed against.
	Original []byte

	// Modified is Original with the edits applied.
	Modified []byte

	// Hunks contains the diff hunks.
	Hunks []DiffHunk

	// Additions is the number of lines added.
	Additions int

	// Deletions is the number of lines deleted.
	Deletions int
}

// DiffHunk represents a single hunk in a unified diff.
type DiffHunk struct {
	// OriginalStart is the 1-based line number where the hunk starts in the original.
	OriginalStart int

	// OriginalCount is the number of lines from the original in this hunk.
	OriginalCount int

	// ModifiedStart is the 1-based line number where the hunk starts in the modified.
	ModifiedStart int

	// ModifiedCount is the number of lines from the modified in this hunk.
	ModifiedCount int

	// Lines contains the diff lines in this hunk.
	Lines []DiffLine
}

// DiffLine represents a single line in a diff hunk.
type DiffLine struct {
	Kind    DiffLineKind
	Content string
}

// DiffLineKind indicates the type of diff line.
type DiffLineKind int

const (
	// DiffLineContext is an unchanged context line.
	DiffLineContext DiffLineKind = iota

	// DiffLineAdd is a line added in the modified version.
	DiffLineAdd

	// DiffLineRemove is a line removed from the original version.
	DiffLineRemove
)

// contextLines is the number of context lines to show around changes.
const contextLines = 3

// GenerateDiff renders the effect of edits on original as a unified diff.
// Edits may be in any order; they are validated and sorted first.
// Returns nil when the edits leave every line unchanged.
func GenerateDiff(path string, original []byte, edits []Edit) (*Diff, error) {
	sorted, err := PrepareEdits(edits, len(original))
	if err != nil {
		return nil, err
	}
	if len(sorted) == 0 {
		return nil, nil
	}

	modified := ApplyBytes(original, sorted)

	orig := newLineView(original)
	mod := newLineView(modified)

	blocks := changeBlocks(sorted, orig, mod)
	if len(blocks) == 0 {
		return nil, nil
	}

	hunks := groupIntoHunks(blocks, orig, mod)

	var additions, deletions int
	for _, hunk := range hunks {
		for _, line := range hunk.Lines {
			switch line.Kind {
			case DiffLineAdd:
				additions++
			case DiffLineRemove:
				deletions++
			}
		}
	}

	return &Diff{
		Path:      path,
		Original:  original,
		Modified:  modified,
		Hunks:     hunks,
		Additions: additions,
		Deletions: deletions,
	}, nil
}

// GitHeader returns the "diff --git" header line.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", path, path)
}

// String returns the diff in unified diff format (without the git header).
func (d *Diff) String() string {
	if d == nil || len(d.Hunks) == 0 {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var builder strings.Builder
	fmt.Fprintf(&builder, "--- a/%s\n", path)
	fmt.Fprintf(&builder, "+++ b/%s\n", path)

	for _, hunk := range d.Hunks {
		fmt.Fprintf(&builder, "@@ -%d,%d +%d,%d @@\n",
			hunk.OriginalStart, hunk.OriginalCount,
			hunk.ModifiedStart, hunk.ModifiedCount)

		for _, line := range hunk.Lines {
			switch line.Kind {
			case DiffLineContext:
				builder.WriteByte(' ')
			case DiffLineAdd:
				builder.WriteByte('+')
			case DiffLineRemove:
				builder.WriteByte('-')
			}
			builder.WriteString(line.Content)
			builder.WriteByte('\n')
		}
	}

	return builder.String()
}

// FullString returns the complete diff including the git header.
func (d *Diff) FullString() string {
	if d == nil || len(d.Hunks) == 0 {
		return ""
	}
	return d.GitHeader() + "\n" + d.String()
}

// HasChanges returns true if the diff contains any changes.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// lineView numbers the displayable lines of content. The empty line a
// trailing newline opens is not displayable.
type lineView struct {
	content []byte
	lines   *textpos.Lines
	count   int
}

func newLineView(content []byte) *lineView {
	lines := textpos.BuildLines(content)
	count := lines.Count()
	if len(content) > 0 && content[len(content)-1] == '\n' {
		count--
	}
	return &lineView{content: content, lines: lines, count: count}
}

// line returns the 1-based line at off. Offsets past the last displayable
// line map to count+1.
func (v *lineView) line(off textpos.ByteOffset) int {
	line, _, err := v.lines.LineAt(off)
	if err != nil || line > v.count {
		return v.count + 1
	}
	return line
}

// text returns line n without its terminator.
func (v *lineView) text(n int) string {
	info, ok := v.lines.Info(n)
	if !ok {
		return ""
	}
	return string(v.content[info.Start:info.NewlineStart])
}

// changeBlock pairs the original lines an edit touches with the modified
// lines that replace them. Either side may be empty (first > last).
type changeBlock struct {
	origFirst, origLast int
	modFirst, modLast   int
}

// changeBlocks maps sorted edits onto line ranges. Blocks sharing a line are
// merged, and lines the edits left unchanged are trimmed from both ends.
func changeBlocks(sorted []Edit, orig, mod *lineView) []changeBlock {
	var blocks []changeBlock

	// sorted is descending; walk it ascending and track the length delta.
	delta := textpos.ByteOffset(0)
	for i := len(sorted) - 1; i >= 0; i-- {
		e := sorted[i]
		modStart := e.Offset + delta
		modEnd := modStart + textpos.ByteOffset(len(e.Text))
		delta += textpos.ByteOffset(len(e.Text) - e.Length)

		blk := changeBlock{
			origFirst: orig.line(e.Offset),
			origLast:  min(orig.line(e.End()), orig.count),
			modFirst:  mod.line(modStart),
			modLast:   min(mod.line(modEnd), mod.count),
		}

		if n := len(blocks); n > 0 {
			last := &blocks[n-1]
			if blk.origFirst <= last.origLast || blk.modFirst <= last.modLast {
				last.origLast = max(last.origLast, blk.origLast)
				last.modLast = max(last.modLast, blk.modLast)
				continue
			}
		}
		blocks = append(blocks, blk)
	}

	trimmed := blocks[:0]
	for _, blk := range blocks {
		for blk.origFirst <= blk.origLast && blk.modFirst <= blk.modLast &&
			orig.text(blk.origFirst) == mod.text(blk.modFirst) {
			blk.origFirst++
			blk.modFirst++
		}
		for blk.origFirst <= blk.origLast && blk.modFirst <= blk.modLast &&
			orig.text(blk.origLast) == mod.text(blk.modLast) {
			blk.origLast--
			blk.modLast--
		}
		if blk.origFirst > blk.origLast && blk.modFirst > blk.modLast {
			continue
		}
		trimmed = append(trimmed, blk)
	}

	return trimmed
}

// groupIntoHunks joins blocks whose context would touch and renders each group.
func groupIntoHunks(blocks []changeBlock, orig, mod *lineView) []DiffHunk {
	var hunks []DiffHunk

	groupStart := 0
	for i := 1; i <= len(blocks); i++ {
		if i < len(blocks) && blocks[i].origFirst-blocks[i-1].origLast-1 <= 2*contextLines {
			continue
		}
		hunks = append(hunks, buildHunk(blocks[groupStart:i], orig, mod))
		groupStart = i
	}

	return hunks
}

func buildHunk(group []changeBlock, orig, mod *lineView) DiffHunk {
	first := group[0]
	last := group[len(group)-1]

	origStart := max(1, first.origFirst-contextLines)
	origEnd := min(orig.count, last.origLast+contextLines)
	modStart := first.modFirst - (first.origFirst - origStart)

	hunk := DiffHunk{
		OriginalStart: origStart,
		ModifiedStart: modStart,
	}

	context := func(from, to int) {
		for n := from; n <= to; n++ {
			hunk.Lines = append(hunk.Lines, DiffLine{Kind: DiffLineContext, Content: orig.text(n)})
			hunk.OriginalCount++
			hunk.ModifiedCount++
		}
	}

	context(origStart, first.origFirst-1)
	for i, blk := range group {
		if i > 0 {
			context(group[i-1].origLast+1, blk.origFirst-1)
		}
		for n := blk.origFirst; n <= blk.origLast; n++ {
			hunk.Lines = append(hunk.Lines, DiffLine{Kind: DiffLineRemove, Content: orig.text(n)})
			hunk.OriginalCount++
		}
		for n := blk.modFirst; n <= blk.modLast; n++ {
			hunk.Lines = append(hunk.Lines, DiffLine{Kind: DiffLineAdd, Content: mod.text(n)})
			hunk.ModifiedCount++
		}
	}
	context(last.origLast+1, origEnd)

	// An empty side is addressed by the line before it.
	if hunk.OriginalCount == 0 {
		hunk.OriginalStart--
	}
	if hunk.ModifiedCount == 0 {
		hunk.ModifiedStart--
	}

	return hunk
}
