package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/regionfmt/internal/ui/pretty"
	"github.com/yaklabco/regionfmt/pkg/runner"
)

// TextReporter formats results as styled terminal output, one status line
// per file that needs attention.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	return &TextReporter{
		opts:   opts,
		styles: pretty.ForWriter(opts.Color, opts.Writer),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to format."))
		}
		return 0, nil
	}

	for _, file := range result.Files {
		fmt.Fprint(r.bw, r.styles.FormatOutcome(file, displayPath(file.Path, r.opts.WorkingDir), r.opts.Verbose))
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats, r.opts.DryRun))
	}

	return result.Stats.FilesFormatted, nil
}
