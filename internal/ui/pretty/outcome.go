package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/regionfmt/pkg/reformat"
	"github.com/yaklabco/regionfmt/pkg/runner"
)

// FormatOutcome formats one file's outcome as a status line. displayPath
// replaces the outcome's path when non-empty. Unchanged files render as an
// empty string unless verbose is set.
func (s *Styles) FormatOutcome(outcome runner.FileOutcome, displayPath string, verbose bool) string {
	path := outcome.Path
	if displayPath != "" {
		path = displayPath
	}
	prefix := s.FilePath.Render(path) + ": "

	if outcome.Error != nil {
		return prefix + s.Error.Render("error") + " " + s.Message.Render(reformat.Describe(outcome.Error)) + "\n"
	}

	pr := outcome.Result
	if pr == nil {
		return ""
	}

	var builder strings.Builder
	switch {
	case pr.Skipped:
		builder.WriteString(prefix + s.Dim.Render("skipped") + " " + s.Detail.Render(pr.SkipReason))
	case pr.Incomplete():
		builder.WriteString(prefix + s.Warning.Render("incomplete") + " " +
			s.Message.Render("the formatter could not format every region"))
		if n := pr.EditsApplied(); n > 0 {
			builder.WriteString(s.Detail.Render(fmt.Sprintf(" (%s applied)", plural(n, "edit", "edits"))))
		}
	case pr.Written:
		builder.WriteString(prefix + s.Success.Render("formatted") +
			s.Detail.Render(fmt.Sprintf(" (%s)", plural(pr.EditsApplied(), "edit", "edits"))))
		if pr.BackupCreated {
			builder.WriteString(s.Dim.Render(", backup created"))
		}
	case pr.Modified:
		builder.WriteString(prefix + s.Info.Render("would format") +
			s.Detail.Render(fmt.Sprintf(" (%s)", plural(pr.EditsApplied(), "edit", "edits"))))
	default:
		if !verbose {
			return ""
		}
		builder.WriteString(prefix + s.Dim.Render("unchanged"))
	}
	builder.WriteString("\n")

	return builder.String()
}

// plural renders n with the singular or plural noun.
func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
