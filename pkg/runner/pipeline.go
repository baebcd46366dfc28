package runner

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/regionfmt/internal/logging"
	"github.com/yaklabco/regionfmt/pkg/buffer"
	"github.com/yaklabco/regionfmt/pkg/config"
	"github.com/yaklabco/regionfmt/pkg/fix"
	"github.com/yaklabco/regionfmt/pkg/fsutil"
	"github.com/yaklabco/regionfmt/pkg/langdetect"
	"github.com/yaklabco/regionfmt/pkg/reformat"
	"github.com/yaklabco/regionfmt/pkg/region"
	"github.com/yaklabco/regionfmt/pkg/textpos"
)

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")

	// ErrUnknownMode indicates a pipeline mode the pipeline cannot run.
	ErrUnknownMode = errors.New("unknown mode")
)

// PipelineResult contains the result of processing a single file through the safety pipeline.
type PipelineResult struct {
	// Path is the file path that was processed.
	Path string

	// Language is the detected language, or "" if unknown.
	Language string

	// Snapshot is the file state before processing (nil for in-memory content).
	Snapshot *fsutil.Snapshot

	// Format is the outcome of the format operation (nil if skipped before formatting).
	Format *reformat.Result

	// Modified is true if the formatter changed the content.
	Modified bool

	// Content is the full resulting content with the original line endings.
	// It equals the input when nothing changed.
	Content []byte

	// Cursor is the relocated cursor as a byte offset into Content, set when
	// PipelineOptions.Cursor was given.
	Cursor *textpos.ByteOffset

	// Diff is the unified diff for dry-run mode (nil if not in dry-run or unchanged).
	Diff *fix.Diff

	// Skipped is true if the file was skipped (e.g., due to concurrent modification).
	Skipped bool

	// SkipReason explains why the file was skipped.
	SkipReason string

	// BackupCreated is true if a backup was created for this file.
	BackupCreated bool

	// Written is true if the file was written to disk.
	Written bool
}

// Incomplete reports whether the formatter could not fully format the file.
func (pr *PipelineResult) Incomplete() bool {
	return pr != nil && pr.Format != nil && pr.Format.Incomplete
}

// EditsApplied returns the number of replacements applied to the file.
func (pr *PipelineResult) EditsApplied() int {
	if pr == nil || pr.Format == nil {
		return 0
	}
	return pr.Format.EditsApplied
}

// Summary returns a human-readable summary of the pipeline result.
func (pr *PipelineResult) Summary() string {
	switch {
	case pr.Skipped:
		return "skipped: " + pr.SkipReason
	case pr.Written && pr.BackupCreated:
		return "formatted (backup created)"
	case pr.Written:
		return "formatted"
	case pr.Modified:
		return "changes pending"
	case pr.Incomplete():
		return "incomplete"
	default:
		return "unchanged"
	}
}

// Pipeline orchestrates the safe processing of a single file.
type Pipeline struct {
	// Formatter runs the external formatter and patches documents.
	Formatter *reformat.Formatter
}

// NewPipeline creates a new safety pipeline around formatter.
func NewPipeline(formatter *reformat.Formatter) *Pipeline {
	return &Pipeline{Formatter: formatter}
}

// ProcessFile runs the full safety pipeline for a single file.
//
// The pipeline performs the following steps:
//  1. Read and hash the original file.
//  2. Load it into a buffer, remembering its line endings.
//  3. Format the regions selected by opts.Mode.
//  4. Generate diff (if dry-run mode).
//  5. Check for concurrent modifications.
//  6. Create backup (if enabled).
//  7. Write the new content atomically with the original line endings.
func (p *Pipeline) ProcessFile(ctx context.Context, path string, opts PipelineOptions) (*PipelineResult, error) {
	original, snap, err := fsutil.Read(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.process(ctx, path, original, opts)
	if err != nil {
		return nil, err
	}
	result.Snapshot = snap

	if !result.Modified || result.Skipped || opts.DryRun {
		return result, nil
	}

	modified, err := snap.Changed(ctx, opts.StrictRaceDetection)
	if err != nil {
		return nil, fmt.Errorf("check modified: %w", err)
	}
	if modified {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	}

	created, err := snap.Backup(ctx, original, opts.Backup)
	if err != nil {
		return nil, fmt.Errorf("create backup: %w", err)
	}
	result.BackupCreated = created

	if err := snap.Replace(ctx, result.Content); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true

	logging.FromContext(ctx).Debug("file written",
		logging.FieldPath, path,
		logging.FieldEdits, result.EditsApplied(),
		logging.FieldBackup, result.BackupCreated)

	return result, nil
}

// ProcessContent processes in-memory content without file I/O. name is used
// for language detection and diff headers and may be empty.
func (p *Pipeline) ProcessContent(ctx context.Context, name string, content []byte, opts PipelineOptions) (*PipelineResult, error) {
	return p.process(ctx, name, content, opts)
}

func (p *Pipeline) process(ctx context.Context, path string, original []byte, opts PipelineOptions) (*PipelineResult, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("processing cancelled: %w", ctx.Err())
	default:
	}

	ctx = logging.With(ctx, logging.FieldPath, displayName(path))
	logger := logging.FromContext(ctx)

	result := &PipelineResult{
		Path:     path,
		Language: langdetect.Detect(path, original),
		Content:  original,
	}

	if opts.SkipUnsupported && result.Language != "" && !langdetect.Supported(result.Language) {
		result.Skipped = true
		result.SkipReason = "unsupported language " + result.Language
		logger.Debug("skipping file", logging.FieldLanguage, result.Language)
		return result, nil
	}

	buf, eol := buffer.Load(original)

	if opts.Cursor != nil {
		pos, err := buf.TextPosition(toBufferOffset(original, eol, *opts.Cursor), textpos.Approximate)
		if err != nil {
			return nil, fmt.Errorf("cursor: %w", err)
		}
		if err := buf.SetCursor(pos); err != nil {
			return nil, fmt.Errorf("cursor: %w", err)
		}
	}

	formatOpts := reformat.Options{
		Style:          opts.Style,
		FallbackStyle:  opts.FallbackStyle,
		AssumeFilename: opts.AssumeFilename,
	}
	if formatOpts.AssumeFilename == "" {
		formatOpts.AssumeFilename = path
	}

	formatted, err := p.format(ctx, buf, path, original, eol, opts, formatOpts)
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", displayName(path), err)
	}
	result.Format = formatted
	result.Modified = formatted.Changed

	if formatted.Changed {
		result.Content = buf.Encode(eol)
	}

	if opts.Cursor != nil {
		off, err := buf.ByteOffset(formatted.Cursor)
		if err != nil {
			return nil, fmt.Errorf("cursor: %w", err)
		}
		cursor := toFileOffset(buf.Bytes(), eol, off)
		result.Cursor = &cursor
	}

	if opts.DryRun && formatted.Changed {
		result.Diff, err = fix.GenerateDiff(displayName(path), formatted.Original, formatted.Edits)
		if err != nil {
			return nil, fmt.Errorf("diff %s: %w", displayName(path), err)
		}
	}

	return result, nil
}

// format dispatches to the formatter operation for opts.Mode.
func (p *Pipeline) format(
	ctx context.Context,
	buf *buffer.Buffer,
	path string,
	original []byte,
	eol buffer.EOL,
	opts PipelineOptions,
	formatOpts reformat.Options,
) (*reformat.Result, error) {
	switch opts.Mode {
	case config.ModeWhole, "":
		return p.Formatter.FormatWholeDocument(ctx, buf, formatOpts)
	case config.ModeChanged:
		return p.Formatter.FormatChangedRegions(ctx, buf, path, formatOpts)
	case config.ModeLines:
		return p.Formatter.FormatLines(ctx, buf, opts.Lines, formatOpts)
	case config.ModeOffsets:
		selections := make([]region.ByteRange, len(opts.Offsets))
		for i, r := range opts.Offsets {
			selections[i] = region.ByteRange{
				Start: toBufferOffset(original, eol, r.Start),
				End:   toBufferOffset(original, eol, r.End),
			}
		}
		return p.Formatter.FormatSelection(ctx, buf, selections, formatOpts)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownMode, opts.Mode)
	}
}

func displayName(path string) string {
	if path == "" {
		return "<stdin>"
	}
	return path
}

// categorizeError wraps an error with the appropriate pipeline error type.
func categorizeError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}

	if errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}

	return err
}

// IsPipelineError checks if an error is a file-level I/O error raised by the pipeline.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrWriteFailure)
}
