// Package reporter writes the outcome of a formatting run.
package reporter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/regionfmt/pkg/config"
	"github.com/yaklabco/regionfmt/pkg/runner"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Reporter formats and writes run results.
type Reporter interface {
	// Report writes the result and returns the number of files that changed,
	// or would change in a dry run.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// Options configures a Reporter.
type Options struct {
	// Writer receives the report. Defaults to stdout.
	Writer io.Writer

	// ErrorWriter receives per-file errors and warnings for the diff format,
	// so that Writer stays a valid patch.
	ErrorWriter io.Writer

	Format config.OutputFormat

	// Color is a --color mode: auto, always or never.
	Color string

	ShowSummary bool

	// Verbose lists unchanged files too.
	Verbose bool

	// DryRun words the summary for changes that were not written.
	DryRun bool

	// Compact emits single-line JSON.
	Compact bool

	// WorkingDir makes paths under it relative. Empty keeps paths as given.
	WorkingDir string
}

// New returns the Reporter for opts.Format. An empty format means text.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	switch opts.Format {
	case config.FormatText, "":
		return NewTextReporter(opts), nil
	case config.FormatJSON:
		return NewJSONReporter(opts), nil
	case config.FormatDiff:
		return NewDiffReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format %q; valid formats: text, json, diff", opts.Format)
	}
}

// displayPath makes path relative to workDir when it lies inside it.
func displayPath(path, workDir string) string {
	if workDir == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
