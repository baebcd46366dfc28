package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// BackupMode selects where pre-format copies are kept.
type BackupMode string

const (
	// BackupModeSidecar keeps the copy next to the source as <path>.regionfmt.bak.
	BackupModeSidecar BackupMode = "sidecar"

	// BackupModeNone keeps no copy.
	BackupModeNone BackupMode = "none"
)

// BackupSuffix is appended to the source path for sidecar backups.
const BackupSuffix = ".regionfmt.bak"

// BackupConfig controls whether a rewrite leaves a copy of the original.
type BackupConfig struct {
	Enabled bool
	Mode    BackupMode
}

// DefaultBackupConfig returns the defaults: sidecar mode, switched off.
func DefaultBackupConfig() BackupConfig {
	return BackupConfig{Mode: BackupModeSidecar}
}

// active reports whether cfg asks for any backup at all.
func (c BackupConfig) active() bool {
	return c.Enabled && c.Mode != BackupModeNone
}

// BackupPath returns where the backup of path lives, or "" for BackupModeNone.
// Unknown modes fall back to sidecar.
func BackupPath(path string, mode BackupMode) string {
	if mode == BackupModeNone {
		return ""
	}
	return path + BackupSuffix
}

// BackupExists reports whether a backup of path is present.
func BackupExists(path string, mode BackupMode) bool {
	backupPath := BackupPath(path, mode)
	if backupPath == "" {
		return false
	}
	_, err := os.Stat(backupPath)
	return err == nil
}

// Backup stores original, the content the snapshot was taken of, as the
// file's backup. An existing backup is never overwritten, so repeated runs
// keep the oldest copy. Reports whether a new backup was written.
func (s *Snapshot) Backup(ctx context.Context, original []byte, cfg BackupConfig) (bool, error) {
	if s == nil {
		return false, ErrNilSnapshot
	}
	if !cfg.active() {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("backup %s: %w", s.Path, err)
	}

	backupPath := BackupPath(s.Path, cfg.Mode)
	mode := s.Mode.Perm()
	if mode == 0 {
		mode = DefaultFileMode
	}

	f, err := os.OpenFile(backupPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create backup %s: %w", backupPath, err)
	}

	_, writeErr := f.Write(original)
	if writeErr == nil {
		writeErr = f.Sync()
	}
	if err := errors.Join(writeErr, f.Close()); err != nil {
		// A partial backup is worse than none.
		_ = os.Remove(backupPath)
		return false, fmt.Errorf("write backup %s: %w", backupPath, err)
	}
	return true, nil
}
