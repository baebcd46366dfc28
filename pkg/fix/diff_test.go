package fix_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/regionfmt/pkg/fix"
)

func TestGenerateDiff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		original string
		edits    []fix.Edit
		want     string
	}{
		{
			name:     "no edits",
			original: "hello\n",
		},
		{
			name:     "edit that changes nothing",
			original: "hello\n",
			edits:    []fix.Edit{{Offset: 0, Length: 5, Text: "hello"}},
		},
		{
			name:     "single line change",
			original: "hello\nworld\n",
			edits:    []fix.Edit{{Offset: 6, Length: 5, Text: "earth"}},
			want:     "--- a/a.c\n+++ b/a.c\n@@ -1,2 +1,2 @@\n hello\n-world\n+earth\n",
		},
		{
			name:     "two edits on one line",
			original: "int x=1;\n",
			edits:    []fix.Edit{{Offset: 5, Text: " "}, {Offset: 6, Text: " "}},
			want:     "--- a/a.c\n+++ b/a.c\n@@ -1,1 +1,1 @@\n-int x=1;\n+int x = 1;\n",
		},
		{
			name:     "line removed",
			original: "a\nb\nc\n",
			edits:    []fix.Edit{{Offset: 2, Length: 2}},
			want:     "--- a/a.c\n+++ b/a.c\n@@ -1,3 +1,2 @@\n a\n-b\n c\n",
		},
		{
			name:     "line appended",
			original: "a\n",
			edits:    []fix.Edit{{Offset: 2, Text: "b\n"}},
			want:     "--- a/a.c\n+++ b/a.c\n@@ -1,1 +1,2 @@\n a\n+b\n",
		},
		{
			name:     "lines joined",
			original: "f(a,\n  b);\n",
			edits:    []fix.Edit{{Offset: 4, Length: 3, Text: " "}},
			want:     "--- a/a.c\n+++ b/a.c\n@@ -1,2 +1,1 @@\n-f(a,\n-  b);\n+f(a, b);\n",
		},
		{
			name:     "empty original",
			original: "",
			edits:    []fix.Edit{{Offset: 0, Text: "x\n"}},
			want:     "--- a/a.c\n+++ b/a.c\n@@ -0,0 +1,1 @@\n+x\n",
		},
		{
			name:     "crlf terminators are not shown",
			original: "a=1;\r\nb=2;\r\n",
			edits:    []fix.Edit{{Offset: 7, Text: " "}, {Offset: 8, Text: " "}},
			want:     "--- a/a.c\n+++ b/a.c\n@@ -1,2 +1,2 @@\n a=1;\n-b=2;\n+b = 2;\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			diff, err := fix.GenerateDiff("a.c", []byte(tt.original), tt.edits)
			require.NoError(t, err)

			if tt.want == "" {
				assert.Nil(t, diff)
				assert.False(t, diff.HasChanges())
				return
			}

			require.NotNil(t, diff)
			assert.Equal(t, tt.want, diff.String())
		})
	}
}

func TestGenerateDiff_InvalidEdits(t *testing.T) {
	t.Parallel()

	_, err := fix.GenerateDiff("a.c", []byte("abc"), []fix.Edit{{Offset: 2, Length: 5}})

	var verr *fix.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestGenerateDiff_Hunks(t *testing.T) {
	t.Parallel()

	var lines []string
	for i := 1; i <= 20; i++ {
		lines = append(lines, fmt.Sprintf("l%02d", i))
	}
	original := []byte(strings.Join(lines, "\n") + "\n")

	// Line n starts at byte 4*(n-1).
	lineStart := func(n int) int { return 4 * (n - 1) }

	t.Run("distant changes get separate hunks", func(t *testing.T) {
		t.Parallel()

		diff, err := fix.GenerateDiff("a.c", original, []fix.Edit{
			{Offset: offsetAt(lineStart(2)), Length: 3, Text: "X"},
			{Offset: offsetAt(lineStart(18)), Length: 3, Text: "Y"},
		})
		require.NoError(t, err)
		require.Len(t, diff.Hunks, 2)

		assert.Equal(t, 1, diff.Hunks[0].OriginalStart)
		assert.Equal(t, 5, diff.Hunks[0].OriginalCount)
		assert.Equal(t, 15, diff.Hunks[1].OriginalStart)
		assert.Equal(t, 6, diff.Hunks[1].OriginalCount)
		assert.Equal(t, 2, diff.Additions)
		assert.Equal(t, 2, diff.Deletions)
	})

	t.Run("nearby changes share a hunk", func(t *testing.T) {
		t.Parallel()

		diff, err := fix.GenerateDiff("a.c", original, []fix.Edit{
			{Offset: offsetAt(lineStart(6)), Length: 3, Text: "X"},
			{Offset: offsetAt(lineStart(10)), Length: 3, Text: "Y"},
		})
		require.NoError(t, err)
		require.Len(t, diff.Hunks, 1)

		hunk := diff.Hunks[0]
		assert.Equal(t, 3, hunk.OriginalStart)
		assert.Equal(t, 11, hunk.OriginalCount)
		assert.Equal(t, 3, hunk.ModifiedStart)
		assert.Equal(t, 11, hunk.ModifiedCount)
	})

	t.Run("line count shift carries into later hunks", func(t *testing.T) {
		t.Parallel()

		diff, err := fix.GenerateDiff("a.c", original, []fix.Edit{
			{Offset: offsetAt(lineStart(2)), Text: "new1\nnew2\n"},
			{Offset: offsetAt(lineStart(18)), Length: 3, Text: "Y"},
		})
		require.NoError(t, err)
		require.Len(t, diff.Hunks, 2)

		assert.Equal(t, 15, diff.Hunks[1].OriginalStart)
		assert.Equal(t, 17, diff.Hunks[1].ModifiedStart)
	})
}

func TestDiff_FullString(t *testing.T) {
	t.Parallel()

	diff, err := fix.GenerateDiff("/src/a.c", []byte("a\n"), []fix.Edit{{Offset: 0, Length: 1, Text: "b"}})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(diff.FullString(), "diff --git a/src/a.c b/src/a.c\n--- a/src/a.c\n"))

	var nilDiff *fix.Diff
	assert.Empty(t, nilDiff.FullString())
	assert.Empty(t, nilDiff.GitHeader())
}
