// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldDuration   = "duration"

	// Configuration fields.
	FieldMode    = "mode"
	FieldDryRun  = "dry_run"
	FieldJobs    = "jobs"
	FieldTimeout = "timeout"
	FieldBackup  = "backup"

	// Formatter fields.
	FieldBinary        = "binary"
	FieldArgs          = "args"
	FieldStyle         = "style"
	FieldFallbackStyle = "fallback_style"
	FieldAssume        = "assume_filename"
	FieldExitCode      = "exit_code"
	FieldSignal        = "signal"
	FieldStderr        = "stderr"
	FieldLanguage      = "language"

	// Patch fields.
	FieldRegions    = "regions"
	FieldByLine     = "by_line"
	FieldEdits      = "edits"
	FieldApplied    = "applied"
	FieldCursor     = "cursor"
	FieldIncomplete = "incomplete"
	FieldKind       = "kind"

	// Version control fields.
	FieldRepository = "repository"
	FieldRevision   = "revision"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesFormatted  = "files_formatted"
	FieldFilesIncomplete = "files_incomplete"
	FieldFilesErrored    = "files_errored"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
