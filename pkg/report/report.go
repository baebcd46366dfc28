// Package report parses the replacement report a formatter writes to stdout.
//
// A report looks like:
//
//	<?xml version='1.0'?>
//	<replacements xml:space='preserve' incomplete_format='false'>
//	<replacement offset='5' length='1'> = </replacement>
//	<cursor>7</cursor>
//	</replacements>
//
// Parsing is strict: any element, attribute or text the format does not
// define fails the whole report.
package report

import (
	"errors"
	"fmt"

	"github.com/yaklabco/regionfmt/pkg/fix"
	"github.com/yaklabco/regionfmt/pkg/textpos"
)

// ErrMalformedReport indicates a report that does not follow the format.
var ErrMalformedReport = errors.New("malformed replacement report")

// Report is a parsed replacement report.
type Report struct {
	// Edits are sorted with fix.SortEdits and free of overlapping deletions.
	Edits []fix.Edit

	// Cursor is the cursor offset in the formatted document, if reported.
	Cursor *textpos.ByteOffset

	// Incomplete is set when the formatter could only partially format the
	// input, usually because of syntax errors.
	Incomplete bool
}

// MalformedError describes where and why a report was rejected.
type MalformedError struct {
	Line   int
	Column int
	Reason string
	Err    error
}

func (e *MalformedError) Error() string {
	msg := fmt.Sprintf("%s at %d:%d: %s", ErrMalformedReport, e.Line, e.Column, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes ErrMalformedReport and the underlying cause.
func (e *MalformedError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedReport}
	}
	return []error{ErrMalformedReport, e.Err}
}
