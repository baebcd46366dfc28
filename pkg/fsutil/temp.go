package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// WithTempFiles stages each element of contents in its own temp file and
// calls fn with their paths, in order. Files are closed before fn runs and
// removed once it returns.
func WithTempFiles(ctx context.Context, pattern string, contents [][]byte, fn func(paths []string) error) (err error) {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("stage temp files: %w", err)
	}

	var paths []string
	defer func() {
		for _, path := range paths {
			if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				err = errors.Join(err, fmt.Errorf("remove %s: %w", path, rmErr))
			}
		}
	}()

	for _, content := range contents {
		path, stageErr := writeTemp("", pattern, content, 0o600)
		if stageErr != nil {
			return stageErr
		}
		paths = append(paths, path)
	}

	return fn(paths)
}
