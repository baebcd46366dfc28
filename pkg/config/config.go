// Package config defines core configuration types for regionfmt.
// These types are pure data structures with no dependencies on the loaders that fill them.
package config

import "time"

// Default values applied by NewConfig.
const (
	DefaultBinary        = "clang-format"
	DefaultGitBinary     = "git"
	DefaultStyle         = "file"
	DefaultFallbackStyle = "LLVM"
	DefaultTimeout       = 30 * time.Second
	DefaultBackupMode    = "sidecar"
)

// BackupsConfig controls backup behavior when rewriting files.
type BackupsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Mode    string `mapstructure:"mode" yaml:"mode"` // "sidecar" or "none"
}

// OutputFormat specifies how per-file outcomes are reported.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatDiff OutputFormat = "diff"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatDiff:
		return true
	default:
		return false
	}
}

// Mode selects which part of each document is sent to the formatter.
type Mode string

const (
	// ModeWhole formats the entire document.
	ModeWhole Mode = "whole"
	// ModeChanged formats only lines changed relative to the committed version.
	ModeChanged Mode = "changed"
	// ModeLines formats the line ranges given on the command line.
	ModeLines Mode = "lines"
	// ModeOffsets formats the byte ranges given on the command line.
	ModeOffsets Mode = "offsets"
)

// IsValid returns true if the mode is known.
func (m Mode) IsValid() bool {
	switch m {
	case ModeWhole, ModeChanged, ModeLines, ModeOffsets:
		return true
	default:
		return false
	}
}

// Config is the root configuration structure for regionfmt.
type Config struct {
	// Binary is the formatter executable, looked up on PATH when not absolute.
	Binary string `mapstructure:"binary" yaml:"binary"`

	// Style is passed through to the formatter as -style.
	Style string `mapstructure:"style" yaml:"style"`

	// FallbackStyle is passed through as -fallback-style.
	FallbackStyle string `mapstructure:"fallback_style" yaml:"fallback_style"`

	// Timeout bounds a single formatter invocation. Zero disables it; config
	// layers cannot lower a non-zero value to zero, only --timeout 0 can.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// Mode is the default region selection for files.
	Mode Mode `mapstructure:"mode" yaml:"mode"`

	// Extensions limits directory discovery to these file extensions.
	// Empty means the extensions of every language the formatter supports.
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`

	// Gitignore makes discovery honor .gitignore files. Nil means true.
	Gitignore *bool `mapstructure:"gitignore" yaml:"gitignore,omitempty"`

	// Backups configures backup behavior when rewriting.
	Backups BackupsConfig `mapstructure:"backups" yaml:"backups"`

	// GitBinary is the git executable used to compute changed lines.
	GitBinary string `mapstructure:"git_binary" yaml:"git_binary"`

	// CLI-level options (not persisted to config files).

	// DryRun shows what would change without writing files.
	DryRun bool `mapstructure:"-" yaml:"-"`

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"-" yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `mapstructure:"-" yaml:"-"`

	// NoBackups disables backup creation.
	NoBackups bool `mapstructure:"-" yaml:"-"`

	// Strict treats an incomplete format as a failure.
	Strict bool `mapstructure:"-" yaml:"-"`
}

// UseGitignore reports whether discovery should honor .gitignore files.
func (c *Config) UseGitignore() bool {
	return c.Gitignore == nil || *c.Gitignore
}

// BackupsEnabled reports whether a sidecar backup should be written before rewriting a file.
func (c *Config) BackupsEnabled() bool {
	return c.Backups.Enabled && c.Backups.Mode != "none" && !c.NoBackups
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Binary:        DefaultBinary,
		Style:         DefaultStyle,
		FallbackStyle: DefaultFallbackStyle,
		Timeout:       DefaultTimeout,
		Mode:          ModeWhole,
		Backups: BackupsConfig{
			Enabled: false,
			Mode:    DefaultBackupMode,
		},
		GitBinary: DefaultGitBinary,
		Format:    FormatText,
		Jobs:      0, // 0 means use GOMAXPROCS
	}
}
