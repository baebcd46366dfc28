package reformat

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yaklabco/regionfmt/internal/logging"
	"github.com/yaklabco/regionfmt/pkg/fix"
	"github.com/yaklabco/regionfmt/pkg/formatter"
	"github.com/yaklabco/regionfmt/pkg/region"
	"github.com/yaklabco/regionfmt/pkg/report"
	"github.com/yaklabco/regionfmt/pkg/textpos"
)

// patchSession carries one format operation from snapshot to patch. It is
// discarded when the operation ends.
type patchSession struct {
	doc      Document
	snapshot []byte
	cursor   textpos.ByteOffset
	report   *report.Report
}

// newPatchSession snapshots doc and its cursor.
func newPatchSession(doc Document) (*patchSession, error) {
	cursor, err := doc.ByteOffset(doc.Cursor())
	if err != nil {
		return nil, fmt.Errorf("%w: cursor: %w", textpos.ErrStalePosition, err)
	}
	return &patchSession{
		doc:      doc,
		snapshot: bytes.Clone(doc.Bytes()),
		cursor:   cursor,
	}, nil
}

// run invokes the formatter for req, parses the report and applies it.
// Nothing touches the document before the report has parsed cleanly.
func (s *patchSession) run(ctx context.Context, invoker Invoker, req region.Request, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)

	out, err := invoker.Run(ctx, formatter.Invocation{
		Content:        s.snapshot,
		Style:          opts.Style,
		FallbackStyle:  opts.FallbackStyle,
		AssumeFilename: opts.AssumeFilename,
		Cursor:         s.cursor,
		Request:        req,
	})
	if err != nil {
		return nil, err
	}

	s.report, err = report.Parse(bytes.NewReader(out))
	if err != nil {
		return nil, err
	}

	if s.report.Incomplete {
		logger.Warn("formatter reported incomplete formatting",
			logging.FieldAssume, opts.AssumeFilename,
			logging.FieldEdits, len(s.report.Edits))
	}

	if err := fix.ValidateEdits(s.report.Edits, len(s.snapshot)); err != nil {
		return nil, err
	}

	applied, err := fix.Apply(s.doc, s.report.Edits, s.report.Cursor)
	if err != nil {
		logger.Error("document partially modified", logging.FieldError, err)
		return nil, err
	}
	if applied.CursorErr != nil {
		logger.Debug("cursor left in place", logging.FieldError, applied.CursorErr)
	}

	logger.Debug("applied replacements",
		logging.FieldApplied, applied.Applied,
		logging.FieldIncomplete, s.report.Incomplete,
		logging.FieldCursor, s.doc.Cursor())

	return &Result{
		Cursor:       s.doc.Cursor(),
		Incomplete:   s.report.Incomplete,
		EditsApplied: applied.Applied,
		Edits:        s.report.Edits,
		Original:     s.snapshot,
		Changed:      !bytes.Equal(s.snapshot, s.doc.Bytes()),
	}, nil
}

// unchanged is the result of an operation with nothing to format.
func (s *patchSession) unchanged() *Result {
	return &Result{Cursor: s.doc.Cursor(), Original: s.snapshot}
}
