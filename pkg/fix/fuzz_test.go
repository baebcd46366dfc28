package fix_test

import (
	"bytes"
	"testing"
	"unicode/utf8"

	"github.com/yaklabco/regionfmt/pkg/buffer"
	"github.com/yaklabco/regionfmt/pkg/fix"
	"github.com/yaklabco/regionfmt/pkg/textpos"
)

func offsetAt(n int) textpos.ByteOffset {
	return textpos.ByteOffset(n)
}

// fuzzEdits derives two non-overlapping edits from the fuzz inputs, or
// reports false when the inputs cannot produce aligned edits.
func fuzzEdits(content string, a, b, la, lb uint8, ta, tb string) ([]fix.Edit, bool) {
	n := len(content)
	if n == 0 || !utf8.ValidString(content) || !utf8.ValidString(ta) || !utf8.ValidString(tb) {
		return nil, false
	}

	lo := int(a) % (n + 1)
	loEnd := min(n, lo+int(la)%4)
	hi := loEnd + int(b)%(n-loEnd+1)
	hiEnd := min(n, hi+int(lb)%4)

	// Two insertions at one offset apply in list order.
	if lo == loEnd && hi == hiEnd && lo == hi {
		return nil, false
	}

	for _, off := range []int{lo, loEnd, hi, hiEnd} {
		if off < n && !utf8.RuneStart(content[off]) {
			return nil, false
		}
	}

	return []fix.Edit{
		{Offset: offsetAt(lo), Length: loEnd - lo, Text: ta},
		{Offset: offsetAt(hi), Length: hiEnd - hi, Text: tb},
	}, true
}

func FuzzApplyOrderIndependence(f *testing.F) {
	f.Add("int x=1;", uint8(5), uint8(1), uint8(0), uint8(0), " ", " ")
	f.Add("héllo wörld", uint8(0), uint8(3), uint8(3), uint8(2), "X", "")
	f.Add("a\nb\nc\n", uint8(2), uint8(0), uint8(2), uint8(1), "", "z\n")

	f.Fuzz(func(t *testing.T, content string, a, b, la, lb uint8, ta, tb string) {
		edits, ok := fuzzEdits(content, a, b, la, lb, ta, tb)
		if !ok {
			return
		}

		sorted, err := fix.PrepareEdits(edits, len(content))
		if err != nil {
			t.Fatalf("PrepareEdits(%v): %v", edits, err)
		}
		want := fix.ApplyBytes([]byte(content), sorted)

		forward := buffer.New(content)
		if _, err := fix.Apply(forward, edits, nil); err != nil {
			t.Fatalf("Apply forward: %v", err)
		}

		reversed := []fix.Edit{edits[1], edits[0]}
		backward := buffer.New(content)
		if _, err := fix.Apply(backward, reversed, nil); err != nil {
			t.Fatalf("Apply reversed: %v", err)
		}

		if forward.String() != string(want) {
			t.Errorf("Apply forward = %q, want %q", forward.String(), want)
		}
		if backward.String() != string(want) {
			t.Errorf("Apply reversed = %q, want %q", backward.String(), want)
		}
	})
}

func FuzzGenerateDiff(f *testing.F) {
	f.Add("int x=1;\n", uint8(5), uint8(1), uint8(0), uint8(0), " ", " ")
	f.Add("a\nb\nc\n", uint8(2), uint8(0), uint8(2), uint8(1), "", "z\n")
	f.Add("x", uint8(0), uint8(0), uint8(1), uint8(0), "\n\n", "")

	f.Fuzz(func(t *testing.T, content string, a, b, la, lb uint8, ta, tb string) {
		edits, ok := fuzzEdits(content, a, b, la, lb, ta, tb)
		if !ok {
			return
		}

		diff, err := fix.GenerateDiff("f.c", []byte(content), edits)
		if err != nil {
			t.Fatalf("GenerateDiff: %v", err)
		}
		if diff == nil {
			return
		}

		sorted, _ := fix.PrepareEdits(edits, len(content))
		if !bytes.Equal(diff.Modified, fix.ApplyBytes([]byte(content), sorted)) {
			t.Error("Modified does not match ApplyBytes")
		}

		var adds, removes int
		for _, hunk := range diff.Hunks {
			var orig, mod int
			for _, line := range hunk.Lines {
				switch line.Kind {
				case fix.DiffLineContext:
					orig++
					mod++
				case fix.DiffLineAdd:
					mod++
					adds++
				case fix.DiffLineRemove:
					orig++
					removes++
				}
			}
			if orig != hunk.OriginalCount || mod != hunk.ModifiedCount {
				t.Errorf("hunk counts %d/%d, lines give %d/%d",
					hunk.OriginalCount, hunk.ModifiedCount, orig, mod)
			}
		}
		if adds != diff.Additions || removes != diff.Deletions {
			t.Errorf("totals %d/%d, lines give %d/%d", diff.Additions, diff.Deletions, adds, removes)
		}

		_ = diff.String()
	})
}
