package reformat

import (
	"context"
	"fmt"

	"github.com/yaklabco/regionfmt/internal/logging"
	"github.com/yaklabco/regionfmt/pkg/region"
	"github.com/yaklabco/regionfmt/pkg/textpos"
)

// Formatter formats documents through an external formatter. It holds no
// per-document state and may be shared between goroutines working on
// different documents.
type Formatter struct {
	invoker Invoker
	differ  Differ
}

// New creates a Formatter. differ may be nil if FormatChangedRegions is not
// used.
func New(invoker Invoker, differ Differ) *Formatter {
	return &Formatter{invoker: invoker, differ: differ}
}

// FormatRegions formats the given spans of doc. With byLine, each span is
// widened to the whole lines it touches; otherwise the formatter receives
// the spans as byte ranges. Callers that already hold 1-based line ranges
// use FormatLines, which hands them to the formatter unchanged.
func (f *Formatter) FormatRegions(ctx context.Context, doc Document, spans []region.Span, byLine bool, opts Options) (*Result, error) {
	return f.format(ctx, doc, opts, func(s *patchSession) (region.Request, error) {
		if !byLine {
			return region.SpanRequest(doc, spans...)
		}
		lines, err := spanLines(doc, s.snapshot, spans)
		if err != nil {
			return region.Request{}, err
		}
		return region.LineRequest(lines...)
	})
}

// FormatLines formats the given 1-based line ranges of doc.
func (f *Formatter) FormatLines(ctx context.Context, doc Document, lines []region.LineRange, opts Options) (*Result, error) {
	return f.format(ctx, doc, opts, func(*patchSession) (region.Request, error) {
		return region.LineRequest(lines...)
	})
}

// FormatSelection formats byte selections that may not fall on character
// boundaries. Each edge snaps to the nearest boundary first.
func (f *Formatter) FormatSelection(ctx context.Context, doc Document, selections []region.ByteRange, opts Options) (*Result, error) {
	return f.format(ctx, doc, opts, func(*patchSession) (region.Request, error) {
		spans, err := region.SelectionSpans(doc, selections...)
		if err != nil {
			return region.Request{}, err
		}
		return region.SpanRequest(doc, spans...)
	})
}

// FormatWholeDocument formats all of doc as a single byte range.
func (f *Formatter) FormatWholeDocument(ctx context.Context, doc Document, opts Options) (*Result, error) {
	return f.format(ctx, doc, opts, func(s *patchSession) (region.Request, error) {
		if len(s.snapshot) == 0 {
			return region.Request{}, nil
		}
		return region.ByteRequest(region.ByteRange{Start: 0, End: textpos.ByteOffset(len(s.snapshot))})
	})
}

// FormatChangedRegions formats the lines of doc that differ from the version
// of path committed in its repository. No changed lines is a successful
// no-op. When opts.AssumeFilename is empty, path is used.
func (f *Formatter) FormatChangedRegions(ctx context.Context, doc Document, path string, opts Options) (*Result, error) {
	if f.differ == nil {
		return nil, fmt.Errorf("format changed regions of %s: no differ configured", path)
	}
	if opts.AssumeFilename == "" {
		opts.AssumeFilename = path
	}
	return f.format(ctx, doc, opts, func(s *patchSession) (region.Request, error) {
		set, err := f.differ.ChangedLines(ctx, path, s.snapshot)
		if err != nil {
			return region.Request{}, err
		}
		return region.LineRequest(set.Ranges()...)
	})
}

func (f *Formatter) format(
	ctx context.Context,
	doc Document,
	opts Options,
	build func(*patchSession) (region.Request, error),
) (*Result, error) {
	logger := logging.FromContext(ctx)

	session, err := newPatchSession(doc)
	if err != nil {
		return nil, err
	}

	req, err := build(session)
	if err != nil {
		return nil, err
	}
	if req.IsEmpty() {
		logger.Debug("nothing to format")
		return session.unchanged(), nil
	}

	logger.Debug("formatting regions",
		logging.FieldByLine, req.ByLine(),
		logging.FieldRegions, len(req.Lines())+len(req.Bytes()),
		logging.FieldStyle, opts.Style)

	return session.run(ctx, f.invoker, req, opts)
}

// spanLines converts spans to the line ranges they touch in snapshot. A span
// that ends at the start of a line does not include that line.
func spanLines(doc region.PositionMapper, snapshot []byte, spans []region.Span) ([]region.LineRange, error) {
	req, err := region.SpanRequest(doc, spans...)
	if err != nil {
		return nil, err
	}

	lines := textpos.BuildLines(snapshot)
	ranges := make([]region.LineRange, 0, len(spans))
	for _, br := range req.Bytes() {
		start, _, err := lines.LineAt(br.Start)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", textpos.ErrStalePosition, err)
		}
		end, col, err := lines.LineAt(br.End)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", textpos.ErrStalePosition, err)
		}
		if col == 1 && end > start {
			end--
		}
		ranges = append(ranges, region.LineRange{Start: start, End: end})
	}
	return ranges, nil
}
