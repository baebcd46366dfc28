package cli

import (
	"errors"
	"os/exec"

	"github.com/yaklabco/regionfmt/pkg/reformat"
	"github.com/yaklabco/regionfmt/pkg/runner"
)

// Exit codes for regionfmt.
const (
	// ExitSuccess indicates every document was formatted or already clean.
	ExitSuccess = 0

	// ExitFormatFailure indicates at least one document could not be formatted.
	ExitFormatFailure = 1

	// ExitIncomplete indicates the formatter left regions unformatted (with --strict).
	ExitIncomplete = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitUnavailable indicates the formatter binary could not be found.
	ExitUnavailable = 69

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74

	// ExitTimeout indicates the formatter ran past its timeout.
	ExitTimeout = 75
)

var (
	// ErrFormatFailed is returned when some files failed; the reporter has
	// already described each failure.
	ErrFormatFailed = errors.New("formatting failed")

	// ErrIncomplete is returned with --strict when the formatter could not
	// format every region.
	ErrIncomplete = errors.New("formatting incomplete")

	// errUsage marks command-line mistakes.
	errUsage = errors.New("invalid usage")
)

// exitError attaches an exit code to an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// IsReported reports whether err only signals an exit status for problems
// the command has already written out.
func IsReported(err error) bool {
	return errors.Is(err, ErrFormatFailed) || errors.Is(err, ErrIncomplete)
}

// ExitCode maps an error returned by a command to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var coded *exitError
	if errors.As(err, &coded) {
		return coded.code
	}

	switch {
	case errors.Is(err, ErrIncomplete):
		return ExitIncomplete
	case errors.Is(err, ErrFormatFailed):
		return ExitFormatFailure
	case errors.Is(err, errUsage):
		return ExitInvalidUsage
	}

	return ExitCodeForError(err)
}

// ExitCodeForError classifies a formatting error.
func ExitCodeForError(err error) int {
	if errors.Is(err, exec.ErrNotFound) {
		return ExitUnavailable
	}
	if runner.IsPipelineError(err) {
		return ExitIOError
	}

	switch reformat.KindOf(err) {
	case reformat.KindTimeout:
		return ExitTimeout
	case reformat.KindSubprocess,
		reformat.KindMalformedReport,
		reformat.KindOutOfRange,
		reformat.KindStalePosition,
		reformat.KindPartialApply,
		reformat.KindVCS,
		reformat.KindCanceled:
		return ExitFormatFailure
	default:
		return ExitInternalError
	}
}

// ExitCodeFromResult determines the exit code of a multi-file run.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.HasFailures() {
		return ExitFormatFailure
	}

	if strict && result.HasIncomplete() {
		return ExitIncomplete
	}

	return ExitSuccess
}

// resultError converts a run's exit code into the error a command returns.
func resultError(result *runner.Result, strict bool) error {
	switch ExitCodeFromResult(result, strict) {
	case ExitFormatFailure:
		return ErrFormatFailed
	case ExitIncomplete:
		return ErrIncomplete
	default:
		return nil
	}
}
