package reformat_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/regionfmt/pkg/fix"
	"github.com/yaklabco/regionfmt/pkg/formatter"
	"github.com/yaklabco/regionfmt/pkg/reformat"
	"github.com/yaklabco/regionfmt/pkg/region"
	"github.com/yaklabco/regionfmt/pkg/report"
	"github.com/yaklabco/regionfmt/pkg/textpos"
	"github.com/yaklabco/regionfmt/pkg/vcs"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want reformat.Kind
	}{
		{name: "nil", err: nil, want: reformat.KindUnknown},
		{name: "plain", err: errors.New("boom"), want: reformat.KindUnknown},
		{name: "subprocess", err: &formatter.SubprocessError{Binary: "clang-format", ExitCode: 1}, want: reformat.KindSubprocess},
		{name: "timeout", err: fmt.Errorf("%w: slow", formatter.ErrTimeout), want: reformat.KindTimeout},
		{name: "malformed", err: &report.MalformedError{Reason: "bad"}, want: reformat.KindMalformedReport},
		{name: "out of range", err: fmt.Errorf("x: %w", textpos.ErrOutOfRange), want: reformat.KindOutOfRange},
		{name: "misaligned", err: textpos.ErrMisaligned, want: reformat.KindOutOfRange},
		{name: "invalid region", err: region.ErrInvalidRegion, want: reformat.KindOutOfRange},
		{name: "invalid edit", err: &fix.ValidationError{Message: "past end"}, want: reformat.KindOutOfRange},
		{
			name: "stale wraps out of range",
			err:  fmt.Errorf("%w: %w", textpos.ErrStalePosition, textpos.ErrOutOfRange),
			want: reformat.KindStalePosition,
		},
		{
			name: "partial apply wraps misaligned",
			err:  &fix.PartialApplyError{Applied: 2, Err: textpos.ErrMisaligned},
			want: reformat.KindPartialApply,
		},
		{name: "no repository", err: vcs.ErrNoRepository, want: reformat.KindVCS},
		{name: "diff failed", err: vcs.ErrDiffFailed, want: reformat.KindVCS},
		{name: "canceled", err: fmt.Errorf("run: %w", context.Canceled), want: reformat.KindCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, reformat.KindOf(tt.err))
		})
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	assert.Empty(t, reformat.Describe(nil))
	assert.Equal(t, "boom", reformat.Describe(errors.New("boom")))

	msg := reformat.Describe(&formatter.SubprocessError{
		Binary:   "clang-format",
		ExitCode: 1,
		Stderr:   "error: unknown style 'bogus'\n",
	})
	assert.Equal(t, "subprocess failure: clang-format exited with status 1: error: unknown style 'bogus'", msg)

	msg = reformat.Describe(&fix.PartialApplyError{Applied: 1, Err: textpos.ErrMisaligned})
	assert.Contains(t, msg, "partly modified")
}
