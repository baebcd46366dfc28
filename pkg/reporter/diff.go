package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/regionfmt/internal/ui/pretty"
	"github.com/yaklabco/regionfmt/pkg/fix"
	"github.com/yaklabco/regionfmt/pkg/reformat"
	"github.com/yaklabco/regionfmt/pkg/runner"
)

// DiffReporter writes git-style unified diffs of what formatting changed, or
// would change. Only patch text goes to Writer.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
	errOut io.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	errOut := opts.ErrorWriter
	if errOut == nil {
		errOut = opts.Writer
	}
	return &DiffReporter{
		opts:   opts,
		styles: pretty.ForWriter(opts.Color, opts.Writer),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
		errOut: errOut,
	}
}

// Report implements Reporter.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var files, added, removed int
	for _, file := range result.Files {
		if file.Error != nil {
			// Flush first so interleaved streams stay in order on a terminal.
			_ = r.bw.Flush()
			fmt.Fprintf(r.errOut, "%s: %s %s\n",
				r.styles.FilePath.Render(displayPath(file.Path, r.opts.WorkingDir)),
				r.styles.Error.Render("error"),
				reformat.Describe(file.Error))
			continue
		}
		if file.Result == nil || !file.Result.Diff.HasChanges() {
			continue
		}

		files++
		added += file.Result.Diff.Additions
		removed += file.Result.Diff.Deletions
		r.writeDiff(file.Result.Diff)
	}

	if n := result.Stats.FilesIncomplete; n > 0 {
		_ = r.bw.Flush()
		fmt.Fprintln(r.errOut, r.styles.Warning.Render(
			fmt.Sprintf("%d incomplete: the formatter could not format every region", n)))
	}

	if files > 0 && r.opts.ShowSummary {
		parts := []string{plural(files, "file", "files") + " changed"}
		if added > 0 {
			parts = append(parts, r.styles.DiffAdd.Render(plural(added, "insertion", "insertions")+"(+)"))
		}
		if removed > 0 {
			parts = append(parts, r.styles.DiffRemove.Render(plural(removed, "deletion", "deletions")+"(-)"))
		}
		fmt.Fprintln(r.bw, strings.Join(parts, ", "))
	}

	return files, nil
}

// writeDiff writes one file's patch under a git header with a/ and b/
// prefixes on the display path.
func (r *DiffReporter) writeDiff(diff *fix.Diff) {
	name := displayPath(diff.Path, r.opts.WorkingDir)

	fmt.Fprintln(r.bw, r.styles.DiffHeader.Render("diff --git a/"+name+" b/"+name))
	fmt.Fprintln(r.bw, r.styles.DiffRemove.Render("--- a/"+name))
	fmt.Fprintln(r.bw, r.styles.DiffAdd.Render("+++ b/"+name))

	for _, line := range strings.Split(diff.String(), "\n") {
		if line == "" || strings.HasPrefix(line, "---") || strings.HasPrefix(line, "+++") {
			continue
		}
		fmt.Fprintln(r.bw, r.lineStyle(line).Render(line))
	}
	fmt.Fprintln(r.bw)
}

func (r *DiffReporter) lineStyle(line string) lipgloss.Style {
	switch {
	case strings.HasPrefix(line, "@@"):
		return r.styles.DiffHunk
	case strings.HasPrefix(line, "+"):
		return r.styles.DiffAdd
	case strings.HasPrefix(line, "-"):
		return r.styles.DiffRemove
	default:
		return r.styles.DiffContext
	}
}
