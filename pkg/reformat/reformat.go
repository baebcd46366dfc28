// Package reformat runs a formatter over regions of a document and patches
// the document with the replacements it reports.
package reformat

import (
	"context"

	"github.com/yaklabco/regionfmt/pkg/fix"
	"github.com/yaklabco/regionfmt/pkg/formatter"
	"github.com/yaklabco/regionfmt/pkg/region"
	"github.com/yaklabco/regionfmt/pkg/textpos"
)

// Document is a mutable text with a cursor that can be formatted in place.
// Callers must not modify it while a format operation is running.
type Document interface {
	fix.Document
	region.PositionMapper

	// Bytes returns the encoded content the formatter sees.
	Bytes() []byte

	// Cursor returns the current cursor position.
	Cursor() textpos.TextPosition
}

// Invoker runs the formatter on one invocation and returns its report.
type Invoker interface {
	Run(ctx context.Context, inv formatter.Invocation) ([]byte, error)
}

// Differ finds the lines of a document that changed since the last commit.
type Differ interface {
	ChangedLines(ctx context.Context, path string, content []byte) (*region.Set, error)
}

// Options carries per-call formatter settings.
type Options struct {
	// Style is passed through to the formatter as-is.
	Style string

	// FallbackStyle applies when Style is "file" and no style file is found.
	FallbackStyle string

	// AssumeFilename selects the language for content read from stdin.
	AssumeFilename string
}

// Result describes a completed format operation.
type Result struct {
	// Cursor is the document's cursor after the operation.
	Cursor textpos.TextPosition

	// Incomplete is set when the formatter could not fully format the
	// regions. The edits it did report are still applied.
	Incomplete bool

	// EditsApplied is the number of replacements applied.
	EditsApplied int

	// Edits are the applied replacements, sorted with fix.SortEdits and
	// addressed against Original.
	Edits []fix.Edit

	// Original is the document content before the operation.
	Original []byte

	// Changed reports whether the document's content changed.
	Changed bool
}
