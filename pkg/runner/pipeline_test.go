package runner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/regionfmt/internal/testutil/fakeformat"
	"github.com/yaklabco/regionfmt/pkg/config"
	"github.com/yaklabco/regionfmt/pkg/formatter"
	"github.com/yaklabco/regionfmt/pkg/fsutil"
	"github.com/yaklabco/regionfmt/pkg/reformat"
	"github.com/yaklabco/regionfmt/pkg/region"
	"github.com/yaklabco/regionfmt/pkg/runner"
	"github.com/yaklabco/regionfmt/pkg/textpos"
)

type lineDiffer struct {
	ranges []region.LineRange
}

func (d lineDiffer) ChangedLines(context.Context, string, []byte) (*region.Set, error) {
	return region.NewSet(d.ranges...), nil
}

func fakePipeline(env []string, differ reformat.Differ) *runner.Pipeline {
	invoker := &formatter.Invoker{Binary: os.Args[0], Env: env}
	return runner.NewPipeline(reformat.New(invoker, differ))
}

func spacesPipeline() *runner.Pipeline {
	return fakePipeline(fakeformat.Env(fakeformat.ModeSpaces), nil)
}

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readSource(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestPipeline_ProcessContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		opts    runner.PipelineOptions
		want    string
		edits   int
	}{
		{
			name:    "whole document",
			content: "int x=1;\n",
			opts:    runner.PipelineOptions{Mode: config.ModeWhole},
			want:    "int x = 1;\n",
			edits:   1,
		},
		{
			name:    "default mode is whole",
			content: "a=1;\nb=2;\n",
			want:    "a = 1;\nb = 2;\n",
			edits:   2,
		},
		{
			name:    "lines",
			content: "a=1;\nb=2;\nc=3;\n",
			opts:    runner.PipelineOptions{Mode: config.ModeLines, Lines: []region.LineRange{{Start: 2, End: 3}}},
			want:    "a=1;\nb = 2;\nc = 3;\n",
			edits:   2,
		},
		{
			name:    "offsets",
			content: "a=1;\nb=2;\n",
			opts:    runner.PipelineOptions{Mode: config.ModeOffsets, Offsets: []region.ByteRange{{Start: 0, End: 3}}},
			want:    "a = 1;\nb=2;\n",
			edits:   1,
		},
		{
			name:    "offsets address CRLF content as read",
			content: "a=1;\r\nb=2;\r\n",
			opts:    runner.PipelineOptions{Mode: config.ModeOffsets, Offsets: []region.ByteRange{{Start: 6, End: 10}}},
			want:    "a=1;\r\nb = 2;\r\n",
			edits:   1,
		},
		{
			name:    "CRLF restored",
			content: "int a=1;\r\nint b=2;\r\n",
			want:    "int a = 1;\r\nint b = 2;\r\n",
			edits:   2,
		},
		{
			name:    "already formatted",
			content: "int x = 1;\n",
			want:    "int x = 1;\n",
		},
		{
			name:    "empty",
			content: "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := spacesPipeline().ProcessContent(context.Background(), "a.c", []byte(tt.content), tt.opts)
			require.NoError(t, err)

			assert.Equal(t, tt.want, string(result.Content))
			assert.Equal(t, tt.edits, result.EditsApplied())
			assert.Equal(t, tt.want != tt.content, result.Modified)
			assert.False(t, result.Written)
			assert.Equal(t, "C", result.Language)
		})
	}
}

func TestPipeline_ProcessContent_ChangedLines(t *testing.T) {
	t.Parallel()

	pipeline := fakePipeline(fakeformat.Env(fakeformat.ModeSpaces), lineDiffer{ranges: []region.LineRange{{Start: 1, End: 1}}})

	result, err := pipeline.ProcessContent(context.Background(), "a.c", []byte("a=1;\nb=2;\n"),
		runner.PipelineOptions{Mode: config.ModeChanged})
	require.NoError(t, err)

	assert.Equal(t, "a = 1;\nb=2;\n", string(result.Content))
}

func TestPipeline_ProcessContent_Cursor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		cursor  textpos.ByteOffset
		want    textpos.ByteOffset
	}{
		{"after replacement", "int x=1;", 6, 8},
		{"before replacement", "int x=1;", 2, 2},
		{"CRLF", "a=1;\r\nb=2;", 8, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cursor := tt.cursor
			result, err := spacesPipeline().ProcessContent(context.Background(), "", []byte(tt.content),
				runner.PipelineOptions{Cursor: &cursor, AssumeFilename: "stdin.c"})
			require.NoError(t, err)

			require.NotNil(t, result.Cursor)
			assert.Equal(t, tt.want, *result.Cursor)
			assert.Equal(t, tt.cursor, cursor, "input cursor must not change")
		})
	}
}

func TestPipeline_ProcessContent_DryRunDiff(t *testing.T) {
	t.Parallel()

	result, err := spacesPipeline().ProcessContent(context.Background(), "src/a.c", []byte("int x=1;\n"),
		runner.PipelineOptions{DryRun: true})
	require.NoError(t, err)

	require.NotNil(t, result.Diff)
	assert.Equal(t, "--- a/src/a.c\n+++ b/src/a.c\n@@ -1,1 +1,1 @@\n-int x=1;\n+int x = 1;\n", result.Diff.String())
}

func TestPipeline_ProcessContent_Incomplete(t *testing.T) {
	t.Parallel()

	pipeline := fakePipeline(fakeformat.ReportEnv(
		"<replacements incomplete_format='true'></replacements>"), nil)

	result, err := pipeline.ProcessContent(context.Background(), "a.c", []byte("int x=1;\n"), runner.PipelineOptions{})
	require.NoError(t, err)

	assert.True(t, result.Incomplete())
	assert.False(t, result.Modified)
	assert.Equal(t, "incomplete", result.Summary())
}

func TestPipeline_ProcessContent_SkipsUnsupportedLanguage(t *testing.T) {
	t.Parallel()

	// The failing formatter proves it is never started.
	pipeline := fakePipeline(fakeformat.Env(fakeformat.ModeFail), nil)

	result, err := pipeline.ProcessContent(context.Background(), "tool.py", []byte("x=1\n"),
		runner.PipelineOptions{SkipUnsupported: true})
	require.NoError(t, err)

	assert.True(t, result.Skipped)
	assert.Contains(t, result.SkipReason, "Python")
	assert.Nil(t, result.Format)
}

func TestPipeline_ProcessContent_Errors(t *testing.T) {
	t.Parallel()

	t.Run("formatter failure", func(t *testing.T) {
		t.Parallel()
		pipeline := fakePipeline(fakeformat.Env(fakeformat.ModeFail), nil)

		_, err := pipeline.ProcessContent(context.Background(), "a.c", []byte("int x=1;\n"), runner.PipelineOptions{})

		require.Error(t, err)
		assert.Equal(t, reformat.KindSubprocess, reformat.KindOf(err))
		assert.Contains(t, err.Error(), "a.c")
	})

	t.Run("malformed report", func(t *testing.T) {
		t.Parallel()
		pipeline := fakePipeline(fakeformat.ReportEnv("<replacements><oops/></replacements>"), nil)

		_, err := pipeline.ProcessContent(context.Background(), "a.c", []byte("int x=1;\n"), runner.PipelineOptions{})

		assert.Equal(t, reformat.KindMalformedReport, reformat.KindOf(err))
	})

	t.Run("unknown mode", func(t *testing.T) {
		t.Parallel()

		_, err := spacesPipeline().ProcessContent(context.Background(), "a.c", []byte("x=1;\n"),
			runner.PipelineOptions{Mode: "sometimes"})

		assert.ErrorIs(t, err, runner.ErrUnknownMode)
	})

	t.Run("canceled", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := spacesPipeline().ProcessContent(ctx, "a.c", []byte("x=1;\n"), runner.PipelineOptions{})

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPipeline_ProcessFile(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "main.c", "int a=1;\r\nint b=2;\r\n")

	result, err := spacesPipeline().ProcessFile(context.Background(), path, runner.DefaultPipelineOptions())
	require.NoError(t, err)

	assert.True(t, result.Written)
	assert.False(t, result.BackupCreated)
	assert.Equal(t, "formatted", result.Summary())
	assert.Equal(t, "int a = 1;\r\nint b = 2;\r\n", readSource(t, path))
	require.NotNil(t, result.Snapshot)
	assert.False(t, fsutil.BackupExists(path, fsutil.BackupModeSidecar))
}

func TestPipeline_ProcessFile_Backup(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "main.c", "int x=1;\n")
	opts := runner.DefaultPipelineOptions()
	opts.Backup = fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}

	result, err := spacesPipeline().ProcessFile(context.Background(), path, opts)
	require.NoError(t, err)

	assert.True(t, result.BackupCreated)
	assert.Equal(t, "formatted (backup created)", result.Summary())
	assert.Equal(t, "int x = 1;\n", readSource(t, path))
	assert.Equal(t, "int x=1;\n", readSource(t, fsutil.BackupPath(path, fsutil.BackupModeSidecar)))
}

func TestPipeline_ProcessFile_DryRunLeavesFile(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "main.c", "int x=1;\n")
	opts := runner.DefaultPipelineOptions()
	opts.DryRun = true

	result, err := spacesPipeline().ProcessFile(context.Background(), path, opts)
	require.NoError(t, err)

	assert.False(t, result.Written)
	assert.True(t, result.Modified)
	assert.Equal(t, "changes pending", result.Summary())
	assert.NotNil(t, result.Diff)
	assert.Equal(t, "int x=1;\n", readSource(t, path))
}

func TestPipeline_ProcessFile_FailureLeavesFile(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "main.c", "int x=1;\n")
	pipeline := fakePipeline(fakeformat.ReportEnv("<replacements><replacement offset='99' length='1'>x</replacement></replacements>"), nil)

	_, err := pipeline.ProcessFile(context.Background(), path, runner.DefaultPipelineOptions())

	require.Error(t, err)
	assert.Equal(t, reformat.KindOutOfRange, reformat.KindOf(err))
	assert.Equal(t, "int x=1;\n", readSource(t, path))
}

func TestPipeline_ProcessFile_NotFound(t *testing.T) {
	t.Parallel()

	_, err := spacesPipeline().ProcessFile(context.Background(),
		filepath.Join(t.TempDir(), "missing.c"), runner.DefaultPipelineOptions())

	assert.ErrorIs(t, err, runner.ErrFileNotFound)
	assert.True(t, runner.IsPipelineError(err))
}

func TestPipelineOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Style = "Google"
	cfg.Mode = config.ModeChanged
	cfg.DryRun = true
	cfg.Backups.Enabled = true
	cfg.NoBackups = true

	opts := runner.PipelineOptionsFromConfig(cfg)

	assert.Equal(t, "Google", opts.Style)
	assert.Equal(t, config.DefaultFallbackStyle, opts.FallbackStyle)
	assert.Equal(t, config.ModeChanged, opts.Mode)
	assert.True(t, opts.DryRun)
	assert.False(t, opts.Backup.Enabled)
	assert.True(t, opts.StrictRaceDetection)

	assert.Equal(t, runner.DefaultPipelineOptions(), runner.PipelineOptionsFromConfig(nil))

	runOpts := runner.OptionsFromConfig(cfg, []string{"src"})
	assert.Equal(t, []string{"src"}, runOpts.Paths)
	assert.True(t, runOpts.Gitignore)
	assert.True(t, runOpts.Pipeline.SkipUnsupported)
}

func TestIsPipelineError(t *testing.T) {
	t.Parallel()

	assert.False(t, runner.IsPipelineError(errors.New("other")))
	assert.True(t, runner.IsPipelineError(runner.ErrWriteFailure))
}
