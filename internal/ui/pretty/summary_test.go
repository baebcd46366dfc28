package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/regionfmt/internal/ui/pretty"
	"github.com/yaklabco/regionfmt/pkg/runner"
)

func TestFormatSummary_Basic(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesDiscovered: 10,
		FilesProcessed:  10,
		FilesFormatted:  3,
		FilesUnchanged:  7,
		EditsApplied:    15,
	}

	result := styles.FormatSummary(stats)

	assert.Contains(t, result, "Summary")
	assert.Contains(t, result, "Files checked:     10")
	assert.Contains(t, result, "Files formatted:   3")
	assert.Contains(t, result, "Files unchanged:   7")
	assert.Contains(t, result, "Edits applied:     15")
	assert.Contains(t, result, "Formatting complete")
	assert.NotContains(t, result, "Files failed:")
	assert.NotContains(t, result, "Files incomplete:")
}

func TestFormatSummary_WithFailures(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesDiscovered: 4,
		FilesProcessed:  3,
		FilesIncomplete: 1,
		FilesErrored:    1,
	}

	result := styles.FormatSummary(stats)

	assert.Contains(t, result, "Files incomplete:  1")
	assert.Contains(t, result, "Files failed:      1")
	assert.Contains(t, result, "Formatting failed")
}

func TestFormatSummary_IncompleteOnly(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSummary(runner.Stats{FilesDiscovered: 2, FilesProcessed: 2, FilesIncomplete: 1})

	assert.Contains(t, result, "Formatting incomplete")
}

func TestFormatSummaryOneLine(t *testing.T) {
	tests := []struct {
		name     string
		stats    runner.Stats
		dryRun   bool
		contains []string
		excludes []string
	}{
		{
			name:     "nothing to do",
			stats:    runner.Stats{FilesProcessed: 5, FilesUnchanged: 5},
			contains: []string{"No changes needed", "(5 files checked)"},
		},
		{
			name:     "single file",
			stats:    runner.Stats{FilesProcessed: 1, FilesFormatted: 1},
			contains: []string{"1 file formatted", "(1 file checked)"},
		},
		{
			name:     "dry run",
			stats:    runner.Stats{FilesProcessed: 3, FilesFormatted: 2},
			dryRun:   true,
			contains: []string{"2 files would be formatted"},
		},
		{
			name: "mixed",
			stats: runner.Stats{
				FilesProcessed:  8,
				FilesFormatted:  2,
				FilesIncomplete: 1,
				FilesSkipped:    1,
				FilesErrored:    1,
			},
			contains: []string{"2 files formatted", "1 incomplete", "1 skipped", "1 failed", "(9 files checked)"},
		},
		{
			name:     "errors only",
			stats:    runner.Stats{FilesErrored: 2},
			contains: []string{"2 failed"},
			excludes: []string{"formatted", "No changes"},
		},
	}

	styles := pretty.NewStyles(false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := styles.FormatSummaryOneLine(tt.stats, tt.dryRun)
			for _, want := range tt.contains {
				assert.Contains(t, result, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, result, unwanted)
			}
		})
	}
}
