// Package pretty holds the Lipgloss styles shared by reports, doctor output
// and command help.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ANSI palette indexes.
const (
	colorRed    = "9"
	colorGreen  = "10"
	colorYellow = "11"
	colorBlue   = "12"
	colorCyan   = "14"
	colorGray   = "8"
)

// Styles renders the pieces of regionfmt's terminal output.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Per-file report lines.
	FilePath lipgloss.Style
	Detail   lipgloss.Style
	Message  lipgloss.Style

	// Unified diffs.
	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	// Command help.
	Heading lipgloss.Style
	Command lipgloss.Style
	Flag    lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles builds the style set. With color disabled every style renders
// its input unchanged.
func NewStyles(colorEnabled bool) *Styles {
	plain := lipgloss.NewStyle()
	fg := func(c string) lipgloss.Style {
		if !colorEnabled {
			return plain
		}
		return plain.Foreground(lipgloss.Color(c))
	}
	bold := func(s lipgloss.Style) lipgloss.Style {
		if !colorEnabled {
			return plain
		}
		return s.Bold(true)
	}

	return &Styles{
		Error:   bold(fg(colorRed)),
		Warning: bold(fg(colorYellow)),
		Info:    bold(fg(colorBlue)),

		FilePath: bold(plain),
		Detail:   fg(colorGray).Italic(colorEnabled),
		Message:  plain,

		DiffHeader:  bold(plain),
		DiffHunk:    fg(colorCyan),
		DiffAdd:     fg(colorGreen),
		DiffRemove:  fg(colorRed),
		DiffContext: fg(colorGray),

		SummaryTitle: bold(plain),
		SummaryValue: plain,
		Success:      bold(fg(colorGreen)),
		Failure:      bold(fg(colorRed)),

		Heading: bold(fg(colorYellow)),
		Command: bold(fg(colorCyan)),
		Flag:    fg(colorBlue),

		Dim:  fg(colorGray),
		Bold: bold(plain),
	}
}

// ForWriter returns the styles for output written to w under the given
// color mode.
func ForWriter(mode string, w io.Writer) *Styles {
	return NewStyles(IsColorEnabled(mode, w))
}

// IsColorEnabled resolves a --color mode ("auto", "always", "never") for w.
// Auto means color only on a terminal and only when NO_COLOR is unset.
func IsColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
