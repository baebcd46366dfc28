package fsutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileMode is used for new files when no mode is known.
const DefaultFileMode os.FileMode = 0o644

// WriteAtomic replaces path with content. The content goes to a synced temp
// file in the same directory, which is then renamed over path, so readers see
// either the old file or the new one. On failure path is untouched and the
// temp file is removed.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if mode == 0 {
		mode = DefaultFileMode
	}

	tmpPath, err := writeTemp(filepath.Dir(path), filepath.Base(path)+".regionfmt-*", content, mode)
	if err != nil {
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Replace writes formatted content over the snapshotted file, keeping its
// permission bits.
func (s *Snapshot) Replace(ctx context.Context, content []byte) error {
	if s == nil {
		return ErrNilSnapshot
	}
	return WriteAtomic(ctx, s.Path, content, s.Mode.Perm())
}

// writeTemp writes content to a new temp file in dir and returns its path.
func writeTemp(dir, pattern string, content []byte, mode os.FileMode) (path string, err error) {
	tmp, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tmp.Close())
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(content); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return "", fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Chmod(mode); err != nil {
		return "", fmt.Errorf("chmod temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		// Already closed; the deferred Close error is noise.
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return tmp.Name(), nil
}
