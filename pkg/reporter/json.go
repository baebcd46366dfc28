package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/regionfmt/pkg/reformat"
	"github.com/yaklabco/regionfmt/pkg/runner"
)

// Per-file status values in JSON output.
const (
	statusFormatted  = "formatted"
	statusPending    = "pending"
	statusUnchanged  = "unchanged"
	statusIncomplete = "incomplete"
	statusSkipped    = "skipped"
	statusError      = "error"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's outcome.
type JSONFileResult struct {
	Path          string `json:"path"`
	Status        string `json:"status"`
	Language      string `json:"language,omitempty"`
	Edits         int    `json:"edits"`
	Incomplete    bool   `json:"incomplete"`
	Written       bool   `json:"written"`
	BackupCreated bool   `json:"backupCreated,omitempty"`
	SkipReason    string `json:"skipReason,omitempty"`
	Diff          string `json:"diff,omitempty"`
	Error         string `json:"error,omitempty"`
	ErrorKind     string `json:"errorKind,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered int `json:"filesDiscovered"`
	FilesProcessed  int `json:"filesProcessed"`
	FilesFormatted  int `json:"filesFormatted"`
	FilesUnchanged  int `json:"filesUnchanged"`
	FilesIncomplete int `json:"filesIncomplete"`
	FilesSkipped    int `json:"filesSkipped"`
	FilesErrored    int `json:"filesErrored"`
	EditsApplied    int `json:"editsApplied"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.FilesFormatted, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: "1.0.0",
		Files:   make([]JSONFileResult, 0),
	}

	if result == nil {
		return output
	}

	stats := result.Stats
	output.Summary = JSONSummary{
		FilesDiscovered: stats.FilesDiscovered,
		FilesProcessed:  stats.FilesProcessed,
		FilesFormatted:  stats.FilesFormatted,
		FilesUnchanged:  stats.FilesUnchanged,
		FilesIncomplete: stats.FilesIncomplete,
		FilesSkipped:    stats.FilesSkipped,
		FilesErrored:    stats.FilesErrored,
		EditsApplied:    stats.EditsApplied,
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		output.Files = append(output.Files, r.fileResult(file))
	}

	return output
}

func (r *JSONReporter) fileResult(file runner.FileOutcome) JSONFileResult {
	fileResult := JSONFileResult{Path: displayPath(file.Path, r.opts.WorkingDir)}

	if file.Error != nil {
		fileResult.Status = statusError
		fileResult.Error = file.Error.Error()
		fileResult.ErrorKind = reformat.KindOf(file.Error).String()
		return fileResult
	}

	pr := file.Result
	if pr == nil {
		fileResult.Status = statusUnchanged
		return fileResult
	}

	fileResult.Language = pr.Language
	fileResult.Edits = pr.EditsApplied()
	fileResult.Incomplete = pr.Incomplete()
	fileResult.Written = pr.Written
	fileResult.BackupCreated = pr.BackupCreated
	fileResult.SkipReason = pr.SkipReason
	if pr.Diff.HasChanges() {
		fileResult.Diff = pr.Diff.String()
	}

	switch {
	case pr.Skipped:
		fileResult.Status = statusSkipped
	case pr.Incomplete():
		fileResult.Status = statusIncomplete
	case pr.Written:
		fileResult.Status = statusFormatted
	case pr.Modified:
		fileResult.Status = statusPending
	default:
		fileResult.Status = statusUnchanged
	}

	return fileResult
}
