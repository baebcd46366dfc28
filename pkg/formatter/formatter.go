// Package formatter runs an external formatter that reports its changes as
// replacements rather than rewriting the input.
package formatter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/regionfmt/pkg/region"
	"github.com/yaklabco/regionfmt/pkg/textpos"
)

// DefaultBinary is the formatter used when none is configured.
const DefaultBinary = "clang-format"

var (
	// ErrSubprocessFailure indicates the formatter could not be started, exited
	// non-zero or was killed by a signal.
	ErrSubprocessFailure = errors.New("formatter failed")

	// ErrTimeout indicates the formatter ran past its allotted time and was
	// killed.
	ErrTimeout = errors.New("formatter timed out")
)

// SubprocessError describes a failed formatter run.
type SubprocessError struct {
	// Binary is the formatter that was run.
	Binary string

	// ExitCode is the exit status, or -1 if the process did not exit normally
	// or never started.
	ExitCode int

	// Signal names the signal that killed the process, if any.
	Signal string

	// Stderr is everything the formatter wrote to stderr, verbatim.
	Stderr string

	// Err is the underlying start or wait error.
	Err error
}

func (e *SubprocessError) Error() string {
	var msg string
	switch {
	case e.Signal != "":
		msg = fmt.Sprintf("%s killed by signal %s", e.Binary, e.Signal)
	case e.ExitCode >= 0:
		msg = fmt.Sprintf("%s exited with status %d", e.Binary, e.ExitCode)
	case e.Err != nil:
		msg = fmt.Sprintf("%s: %v", e.Binary, e.Err)
	default:
		msg = e.Binary + " failed"
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// Unwrap exposes ErrSubprocessFailure and the underlying error.
func (e *SubprocessError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSubprocessFailure}
	}
	return []error{ErrSubprocessFailure, e.Err}
}

// Invocation is one formatting request.
type Invocation struct {
	// Content is written to the formatter's stdin.
	Content []byte

	// Style is passed as -style when set.
	Style string

	// FallbackStyle is passed as -fallback-style when set.
	FallbackStyle string

	// AssumeFilename tells the formatter which language to use for stdin.
	AssumeFilename string

	// Cursor is the cursor's byte offset in Content.
	Cursor textpos.ByteOffset

	// Request selects the regions to format.
	Request region.Request
}

// Args returns the formatter arguments for the invocation.
func (inv Invocation) Args() []string {
	args := []string{"-output-replacements-xml"}
	if inv.Style != "" {
		args = append(args, "-style="+inv.Style)
	}
	if inv.FallbackStyle != "" {
		args = append(args, "-fallback-style="+inv.FallbackStyle)
	}
	if inv.AssumeFilename != "" {
		args = append(args, "-assume-filename="+inv.AssumeFilename)
	}
	args = append(args, "-cursor="+strconv.Itoa(int(inv.Cursor)))
	return append(args, inv.Request.Args()...)
}
