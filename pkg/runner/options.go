// Package runner provides multi-file formatting orchestration: a safety
// pipeline for one file and a bounded worker pool over many.
package runner

import (
	"github.com/yaklabco/regionfmt/pkg/config"
	"github.com/yaklabco/regionfmt/pkg/fsutil"
	"github.com/yaklabco/regionfmt/pkg/langdetect"
	"github.com/yaklabco/regionfmt/pkg/region"
	"github.com/yaklabco/regionfmt/pkg/textpos"
)

// Options controls multi-file formatting behavior.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (with leading dot) picked up
	// when walking directories. Defaults to DefaultExtensions().
	Extensions []string

	// ExcludeGlobs are gitignore-style patterns used to skip files or
	// directories, relative to WorkingDir.
	ExcludeGlobs []string

	// Gitignore makes the walk honor .gitignore files found along the way.
	Gitignore bool

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// Pipeline is applied to every file.
	Pipeline PipelineOptions
}

// PipelineOptions controls how a single document is formatted and written.
type PipelineOptions struct {
	// Mode selects which regions are sent to the formatter.
	Mode config.Mode

	// Lines are the 1-based line ranges for ModeLines.
	Lines []region.LineRange

	// Offsets are the byte ranges for ModeOffsets, in the coordinates of the
	// content as read.
	Offsets []region.ByteRange

	// Cursor, when set, is a byte offset into the content whose relocated
	// position is reported in PipelineResult.Cursor.
	Cursor *textpos.ByteOffset

	// Style, FallbackStyle and AssumeFilename are passed to the formatter.
	Style          string
	FallbackStyle  string
	AssumeFilename string

	// SkipUnsupported skips documents whose language the formatter does not
	// handle instead of sending them anyway.
	SkipUnsupported bool

	// DryRun generates diffs without writing files.
	DryRun bool

	// Backup configures backup behavior.
	Backup fsutil.BackupConfig

	// StrictRaceDetection uses hash comparison for modification detection.
	// When false, only mod time and size are checked.
	StrictRaceDetection bool
}

// DefaultExtensions returns the extensions of the languages formatted by default.
func DefaultExtensions() []string {
	return langdetect.Extensions(langdetect.DefaultLanguages...)
}

// DefaultPipelineOptions returns sensible defaults.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Mode:                config.ModeWhole,
		Style:               config.DefaultStyle,
		FallbackStyle:       config.DefaultFallbackStyle,
		Backup:              fsutil.DefaultBackupConfig(),
		StrictRaceDetection: true,
	}
}

// BackupConfigFromConfig creates an fsutil.BackupConfig from config.Config.
func BackupConfigFromConfig(cfg *config.Config) fsutil.BackupConfig {
	if cfg == nil {
		return fsutil.DefaultBackupConfig()
	}
	return fsutil.BackupConfig{
		Enabled: cfg.BackupsEnabled(),
		Mode:    fsutil.BackupMode(cfg.Backups.Mode),
	}
}

// PipelineOptionsFromConfig creates PipelineOptions from config.Config.
func PipelineOptionsFromConfig(cfg *config.Config) PipelineOptions {
	if cfg == nil {
		return DefaultPipelineOptions()
	}
	return PipelineOptions{
		Mode:                cfg.Mode,
		Style:               cfg.Style,
		FallbackStyle:       cfg.FallbackStyle,
		DryRun:              cfg.DryRun,
		Backup:              BackupConfigFromConfig(cfg),
		StrictRaceDetection: true,
	}
}

// OptionsFromConfig creates runner Options for paths from config.Config.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	opts := Options{
		Paths:    paths,
		Pipeline: PipelineOptionsFromConfig(cfg),
	}
	if cfg != nil {
		opts.Extensions = cfg.Extensions
		opts.ExcludeGlobs = cfg.Ignore
		opts.Gitignore = cfg.UseGitignore()
		opts.Jobs = cfg.Jobs
	}
	opts.Pipeline.SkipUnsupported = true
	return opts
}

// effectiveExtensions returns the extensions to use, defaulting if empty.
func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
