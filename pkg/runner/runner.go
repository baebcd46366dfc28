package runner

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/regionfmt/internal/logging"
)

// Runner orchestrates multi-file formatting using a Pipeline.
type Runner struct {
	// Pipeline handles per-file processing with safety guarantees.
	Pipeline *Pipeline
}

// New creates a new Runner with the given pipeline.
func New(pipeline *Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers files under opts.Paths and processes them concurrently.
// It returns a deterministic collection of FileOutcome values and aggregate stats.
//
// Every file is its own document; a worker owns a document from read to
// write and no document is shared between workers. A file that fails is
// recorded in its outcome and does not stop the others.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)
	start := time.Now()

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
	}
	result.Stats.FilesDiscovered = len(files)

	logger.Debug("discovered files", logging.FieldFilesDiscovered, len(files))

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	// Each worker writes only its own slot.
	outcomes := make([]FileOutcome, len(files))
	done := make([]bool, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	indexCh := make(chan int, jobs*2)

	group.Go(func() error {
		defer close(indexCh)
		for i := range files {
			select {
			case indexCh <- i:
			case <-groupCtx.Done():
				return groupCtx.Err()
			}
		}
		return nil
	})

	for range jobs {
		group.Go(func() error {
			for i := range indexCh {
				outcome := FileOutcome{Path: files[i]}
				pr, err := r.Pipeline.ProcessFile(groupCtx, files[i], opts.Pipeline)
				if err != nil {
					outcome.Error = err
					logger.Debug("file failed", logging.FieldPath, files[i], logging.FieldError, err)
				} else {
					outcome.Result = pr
				}
				outcomes[i] = outcome
				done[i] = true
			}
			return nil
		})
	}

	waitErr := group.Wait()

	for i := range files {
		if done[i] {
			result.accumulate(outcomes[i])
		}
	}

	logger.Debug("run finished",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesFormatted, result.Stats.FilesFormatted,
		logging.FieldFilesIncomplete, result.Stats.FilesIncomplete,
		logging.FieldFilesErrored, result.Stats.FilesErrored,
		logging.FieldDuration, time.Since(start))

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}
	if waitErr != nil {
		return result, fmt.Errorf("run: %w", waitErr)
	}

	return result, nil
}
