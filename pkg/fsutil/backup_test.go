package fsutil_test

import (
	"context"
	"os"
	"testing"

	"github.com/yaklabco/regionfmt/pkg/fsutil"
)

func TestBackupPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode fsutil.BackupMode
		want string
	}{
		{mode: fsutil.BackupModeSidecar, want: "src/a.c.regionfmt.bak"},
		{mode: fsutil.BackupModeNone, want: ""},
		{mode: "bogus", want: "src/a.c.regionfmt.bak"},
	}

	for _, tt := range tests {
		if got := fsutil.BackupPath("src/a.c", tt.mode); got != tt.want {
			t.Errorf("BackupPath(%q) = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestDefaultBackupConfig(t *testing.T) {
	t.Parallel()

	cfg := fsutil.DefaultBackupConfig()
	if cfg.Enabled {
		t.Error("backups should be off by default")
	}
	if cfg.Mode != fsutil.BackupModeSidecar {
		t.Errorf("Mode = %q, want sidecar", cfg.Mode)
	}
}

func TestSnapshotBackup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	enabled := fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}

	t.Run("writes original", func(t *testing.T) {
		t.Parallel()

		path := writeSource(t, "int  a;\n", 0o640)
		original, snap, err := fsutil.Read(ctx, path)
		if err != nil {
			t.Fatal(err)
		}

		created, err := snap.Backup(ctx, original, enabled)
		if err != nil || !created {
			t.Fatalf("Backup() = %v, %v; want true, nil", created, err)
		}

		backupPath := fsutil.BackupPath(path, fsutil.BackupModeSidecar)
		got, err := os.ReadFile(backupPath)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "int  a;\n" {
			t.Errorf("backup = %q", got)
		}
		if !fsutil.BackupExists(path, fsutil.BackupModeSidecar) {
			t.Error("BackupExists() = false after backup")
		}
	})

	t.Run("keeps oldest copy", func(t *testing.T) {
		t.Parallel()

		path := writeSource(t, "first\n", 0o644)
		first, snap, err := fsutil.Read(ctx, path)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := snap.Backup(ctx, first, enabled); err != nil {
			t.Fatal(err)
		}

		created, err := snap.Backup(ctx, []byte("second\n"), enabled)
		if err != nil || created {
			t.Fatalf("second Backup() = %v, %v; want false, nil", created, err)
		}
		got, _ := os.ReadFile(fsutil.BackupPath(path, fsutil.BackupModeSidecar))
		if string(got) != "first\n" {
			t.Errorf("backup = %q, want the first original", got)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()

		path := writeSource(t, "x\n", 0o644)
		original, snap, err := fsutil.Read(ctx, path)
		if err != nil {
			t.Fatal(err)
		}

		for _, cfg := range []fsutil.BackupConfig{
			fsutil.DefaultBackupConfig(),
			{Enabled: true, Mode: fsutil.BackupModeNone},
		} {
			created, err := snap.Backup(ctx, original, cfg)
			if err != nil || created {
				t.Errorf("Backup(%+v) = %v, %v; want false, nil", cfg, created, err)
			}
		}
		if fsutil.BackupExists(path, fsutil.BackupModeSidecar) {
			t.Error("no backup should be written when disabled")
		}
	})
}
