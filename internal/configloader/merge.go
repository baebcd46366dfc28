package configloader

import "github.com/yaklabco/regionfmt/pkg/config"

// override copies v into dst unless v is the zero value.
func override[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}

// merge layers top over base and returns a new Config. Zero scalars and nil
// slices in top leave base alone, so booleans can only be switched on by a
// higher layer. Gitignore is a pointer so a file can switch it off.
func merge(base, top *config.Config) *config.Config {
	if base == nil {
		return top
	}
	if top == nil {
		return base
	}

	out := base.Clone()

	override(&out.Binary, top.Binary)
	override(&out.Style, top.Style)
	override(&out.FallbackStyle, top.FallbackStyle)
	override(&out.Timeout, top.Timeout)
	override(&out.Mode, top.Mode)
	override(&out.GitBinary, top.GitBinary)
	override(&out.Format, top.Format)
	override(&out.Jobs, top.Jobs)
	override(&out.DryRun, top.DryRun)
	override(&out.NoBackups, top.NoBackups)
	override(&out.Strict, top.Strict)
	override(&out.Backups.Mode, top.Backups.Mode)
	override(&out.Backups.Enabled, top.Backups.Enabled)

	if top.Gitignore != nil {
		v := *top.Gitignore
		out.Gitignore = &v
	}
	if top.Extensions != nil {
		out.Extensions = top.Extensions
	}
	if top.Ignore != nil {
		out.Ignore = top.Ignore
	}

	return out
}

// MergeAll folds configs left to right; later ones win.
func MergeAll(configs ...*config.Config) *config.Config {
	var out *config.Config
	for _, cfg := range configs {
		out = merge(out, cfg)
	}
	return out
}
