package fix

import (
	"fmt"
	"sort"

	"github.com/yaklabco/regionfmt/pkg/textpos"
)

// ValidationError describes an edit that does not fit the content.
type ValidationError struct {
	Edit    Edit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit %s: %s", e.Edit, e.Message)
}

// Unwrap returns textpos.ErrOutOfRange.
func (e *ValidationError) Unwrap() error {
	return textpos.ErrOutOfRange
}

// ConflictError describes two edits whose deletions overlap.
type ConflictError struct {
	Edit1 Edit
	Edit2 Edit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: %s and %s", e.Edit1, e.Edit2)
}

// ValidateEdits checks that every edit lies within content of contentLen bytes.
// Returns the first violation found.
func ValidateEdits(edits []Edit, contentLen int) error {
	for _, edit := range edits {
		if edit.Offset < 0 {
			return &ValidationError{Edit: edit, Message: "offset is negative"}
		}
		if edit.Length < 0 {
			return &ValidationError{Edit: edit, Message: "length is negative"}
		}
		if int(edit.Offset) > contentLen {
			return &ValidationError{
				Edit:    edit,
				Message: fmt.Sprintf("offset exceeds content length %d", contentLen),
			}
		}
		// Compared without computing End so huge lengths cannot wrap.
		if edit.Length > contentLen-int(edit.Offset) {
			return &ValidationError{
				Edit:    edit,
				Message: fmt.Sprintf("length runs past content length %d", contentLen),
			}
		}
	}
	return nil
}

// SortEdits orders edits by descending offset, and by descending length for
// equal offsets. Applying edits in this order means no applied edit shifts
// bytes a later edit still addresses. Insertions at the same offset keep
// their relative order.
func SortEdits(edits []Edit) {
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Offset != edits[j].Offset {
			return edits[i].Offset > edits[j].Offset
		}
		return edits[i].Length > edits[j].Length
	})
}

// DetectConflicts checks a SortEdits-ordered slice for overlapping deletions.
// Zero-length insertions may share an offset with each other or sit on the
// boundary of a deletion.
func DetectConflicts(edits []Edit) error {
	for i := 1; i < len(edits); i++ {
		prev := edits[i-1]
		curr := edits[i]
		// curr starts at or before prev; they overlap if curr reaches past
		// prev's start. The gap is non-negative, so nothing can wrap.
		if curr.Length > int(prev.Offset-curr.Offset) {
			return &ConflictError{Edit1: curr, Edit2: prev}
		}
	}
	return nil
}

// PrepareEdits validates, sorts, and checks for conflicts.
// The input slice is not modified.
func PrepareEdits(edits []Edit, contentLen int) ([]Edit, error) {
	if len(edits) == 0 {
		return edits, nil
	}

	if err := ValidateEdits(edits, contentLen); err != nil {
		return nil, err
	}

	result := make([]Edit, len(edits))
	copy(result, edits)
	SortEdits(result)

	if err := DetectConflicts(result); err != nil {
		return nil, err
	}

	return result, nil
}
