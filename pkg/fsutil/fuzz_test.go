package fsutil_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/regionfmt/pkg/fsutil"
)

func FuzzReplaceRoundTrip(f *testing.F) {
	f.Add([]byte("int x;\n"), []byte("int x = 0;\n"))
	f.Add([]byte("a\r\nb\r\n"), []byte("a\r\n"))
	f.Add([]byte{}, []byte("\x00\xff"))

	f.Fuzz(func(t *testing.T, before, after []byte) {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "f.c")
		if err := os.WriteFile(path, before, 0o644); err != nil {
			t.Fatal(err)
		}

		read, snap, err := fsutil.Read(ctx, path)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(read, before) {
			t.Fatalf("Read() = %q, want %q", read, before)
		}

		if err := snap.Replace(ctx, after); err != nil {
			t.Fatal(err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, after) {
			t.Fatalf("after Replace got %q, want %q", got, after)
		}

		changed, err := snap.Changed(ctx, true)
		if err != nil {
			t.Fatal(err)
		}
		if !changed && !bytes.Equal(before, after) {
			t.Fatalf("Changed() = false for before=%q after=%q", before, after)
		}
	})
}
