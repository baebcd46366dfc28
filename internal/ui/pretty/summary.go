package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/regionfmt/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "2 files formatted, 1 incomplete, 1 failed (9 files checked)".
// In dry-run mode formatted files are reported as "would be formatted".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats, dryRun bool) string {
	checked := s.Dim.Render(fmt.Sprintf(" (%s checked)", plural(stats.FilesProcessed+stats.FilesErrored, wordFile, wordFiles)))

	if stats.FilesFormatted == 0 && stats.FilesIncomplete == 0 && stats.FilesErrored == 0 {
		return s.Success.Render("No changes needed") + checked + "\n"
	}

	var parts []string

	if stats.FilesFormatted > 0 {
		verb := "formatted"
		if dryRun {
			verb = "would be formatted"
		}
		parts = append(parts, s.Success.Render(plural(stats.FilesFormatted, wordFile, wordFiles)+" "+verb))
	}
	if stats.FilesIncomplete > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d incomplete", stats.FilesIncomplete)))
	}
	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}

	return strings.Join(parts, ", ") + checked + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files checked:     " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)) + "\n")
	builder.WriteString("  Files formatted:   " +
		s.Success.Render(strconv.Itoa(stats.FilesFormatted)) + "\n")
	builder.WriteString("  Files unchanged:   " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesUnchanged)) + "\n")

	if stats.FilesIncomplete > 0 {
		builder.WriteString("  Files incomplete:  " +
			s.Warning.Render(strconv.Itoa(stats.FilesIncomplete)) + "\n")
	}
	if stats.FilesSkipped > 0 {
		builder.WriteString("  Files skipped:     " +
			s.Dim.Render(strconv.Itoa(stats.FilesSkipped)) + "\n")
	}
	if stats.FilesErrored > 0 {
		builder.WriteString("  Files failed:      " +
			s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	builder.WriteString("\n")
	builder.WriteString("  Edits applied:     " +
		s.SummaryValue.Render(strconv.Itoa(stats.EditsApplied)) + "\n")
	builder.WriteString("\n")

	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Formatting failed"))
	case stats.FilesIncomplete > 0:
		builder.WriteString(s.Warning.Render("Formatting incomplete"))
	default:
		builder.WriteString(s.Success.Render("Formatting complete"))
	}
	builder.WriteString("\n")

	return builder.String()
}
