package fix

import (
	"errors"
	"fmt"

	"github.com/yaklabco/regionfmt/pkg/textpos"
)

// ErrPartialApply indicates that an edit could not be applied after earlier
// edits already changed the document.
var ErrPartialApply = errors.New("edits partially applied")

// Document is a mutable text addressed by TextPosition.
type Document interface {
	TextPosition(off textpos.ByteOffset, mode textpos.Exactness) (textpos.TextPosition, error)
	Delete(start, end textpos.TextPosition) error
	Insert(at textpos.TextPosition, text string) error
	SetCursor(p textpos.TextPosition) error
}

// ApplyResult summarizes a successful Apply.
type ApplyResult struct {
	// Applied is the number of edits applied.
	Applied int

	// CursorMoved reports whether the cursor was placed at the requested offset.
	CursorMoved bool

	// CursorErr holds the reason the cursor could not be placed, if any.
	CursorErr error
}

// PartialApplyError reports the edit that failed. Edits before it remain
// applied.
type PartialApplyError struct {
	Applied int
	Failed  Edit
	Err     error
}

func (e *PartialApplyError) Error() string {
	return fmt.Sprintf("%s: %d applied, failed at %s: %v", ErrPartialApply, e.Applied, e.Failed, e.Err)
}

// Unwrap exposes both ErrPartialApply and the translation error.
func (e *PartialApplyError) Unwrap() []error {
	return []error{ErrPartialApply, e.Err}
}

// Apply applies edits to doc from the highest offset down, so each edit's
// byte offsets still hold against the document it sees. Edits are sorted
// first; the caller's slice is not modified. Each offset is translated
// exactly against the current document.
//
// If cursor is non-nil it is translated against the edited document and the
// cursor moved there. A cursor that cannot be placed is not an error; the
// reason is reported in ApplyResult.CursorErr.
func Apply(doc Document, edits []Edit, cursor *textpos.ByteOffset) (*ApplyResult, error) {
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	SortEdits(sorted)

	for i, edit := range sorted {
		if err := applyOne(doc, edit); err != nil {
			return nil, &PartialApplyError{Applied: i, Failed: edit, Err: err}
		}
	}

	result := &ApplyResult{Applied: len(sorted)}
	if cursor == nil {
		return result, nil
	}

	pos, err := doc.TextPosition(*cursor, textpos.Exact)
	if err == nil {
		err = doc.SetCursor(pos)
	}
	if err != nil {
		result.CursorErr = fmt.Errorf("cursor %s: %w", *cursor, err)
		return result, nil
	}
	result.CursorMoved = true

	return result, nil
}

func applyOne(doc Document, edit Edit) error {
	start, err := doc.TextPosition(edit.Offset, textpos.Exact)
	if err != nil {
		return err
	}
	end, err := doc.TextPosition(edit.End(), textpos.Exact)
	if err != nil {
		return err
	}

	if end > start {
		if err := doc.Delete(start, end); err != nil {
			return err
		}
	}
	if edit.Text != "" {
		if err := doc.Insert(start, edit.Text); err != nil {
			return err
		}
	}
	return nil
}
