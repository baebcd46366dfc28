package reformat

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/regionfmt/pkg/fix"
	"github.com/yaklabco/regionfmt/pkg/formatter"
	"github.com/yaklabco/regionfmt/pkg/region"
	"github.com/yaklabco/regionfmt/pkg/report"
	"github.com/yaklabco/regionfmt/pkg/textpos"
	"github.com/yaklabco/regionfmt/pkg/vcs"
)

// Kind classifies a format failure.
type Kind int

const (
	// KindUnknown is any failure not covered below.
	KindUnknown Kind = iota

	// KindSubprocess means the formatter could not run, exited non-zero or
	// was killed.
	KindSubprocess

	// KindMalformedReport means the formatter's output did not parse.
	KindMalformedReport

	// KindOutOfRange means a coordinate fell outside the document.
	KindOutOfRange

	// KindStalePosition means a position no longer exists in the document.
	KindStalePosition

	// KindTimeout means the formatter ran out of time.
	KindTimeout

	// KindPartialApply means some replacements were applied before one failed.
	// The document is modified.
	KindPartialApply

	// KindVCS means the changed lines could not be determined.
	KindVCS

	// KindCanceled means the caller canceled the operation.
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindSubprocess:
		return "subprocess failure"
	case KindMalformedReport:
		return "malformed report"
	case KindOutOfRange:
		return "out of range"
	case KindStalePosition:
		return "stale position"
	case KindTimeout:
		return "timeout"
	case KindPartialApply:
		return "partial apply"
	case KindVCS:
		return "version control"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// KindOf classifies err. A nil error is KindUnknown.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	// Checked first: the wrapped translation error is also out of range.
	case errors.Is(err, fix.ErrPartialApply):
		return KindPartialApply
	case errors.Is(err, formatter.ErrTimeout):
		return KindTimeout
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.Is(err, formatter.ErrSubprocessFailure):
		return KindSubprocess
	case errors.Is(err, report.ErrMalformedReport):
		return KindMalformedReport
	case errors.Is(err, textpos.ErrStalePosition):
		return KindStalePosition
	case errors.Is(err, textpos.ErrOutOfRange),
		errors.Is(err, textpos.ErrMisaligned),
		errors.Is(err, region.ErrInvalidRegion):
		return KindOutOfRange
	case errors.Is(err, vcs.ErrNoRepository), errors.Is(err, vcs.ErrDiffFailed):
		return KindVCS
	default:
		return KindUnknown
	}
}

// Describe renders err for a user: its kind, then the error text, which for
// a subprocess failure includes the formatter's stderr verbatim.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	kind := KindOf(err)
	switch kind {
	case KindPartialApply:
		return fmt.Sprintf("%s: the document was partly modified and may be inconsistent: %v", kind, err)
	case KindMalformedReport:
		return fmt.Sprintf("%s: the formatter's output was not understood (version mismatch?): %v", kind, err)
	case KindUnknown:
		return err.Error()
	default:
		return fmt.Sprintf("%s: %v", kind, err)
	}
}
