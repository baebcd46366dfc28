package fix

import "bytes"

// ApplyBytes applies a SortEdits-ordered, conflict-free slice of edits to
// content and returns the result. content is not modified.
func ApplyBytes(content []byte, edits []Edit) []byte {
	if len(edits) == 0 {
		return content
	}

	// Estimate result size.
	delta := 0
	for _, e := range edits {
		delta += len(e.Text) - e.Length
	}

	var out bytes.Buffer
	out.Grow(len(content) + delta)

	// Walk the descending list backwards to copy content front to back.
	cursor := 0
	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		out.Write(content[cursor:e.Offset])
		out.WriteString(e.Text)
		cursor = int(e.End())
	}
	out.Write(content[cursor:])

	return out.Bytes()
}
