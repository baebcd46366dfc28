package configloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/regionfmt/pkg/config"
	"github.com/yaklabco/regionfmt/pkg/fsutil"
	"github.com/yaklabco/regionfmt/pkg/langdetect"
)

// ValidationError reports one bad setting, naming the file it came from
// when known.
type ValidationError struct {
	FilePath string
	Field    string
	Message  string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.FilePath != "" {
		b.WriteString(e.FilePath + ": ")
	}
	if e.Field != "" {
		b.WriteString(e.Field + ": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// validation collects the findings for one config layer.
type validation struct {
	file     string
	errs     []*ValidationError
	warnings []string
}

func (v *validation) fail(field, format string, args ...any) {
	v.errs = append(v.errs, &ValidationError{FilePath: v.file, Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v *validation) warn(field, format string, args ...any) {
	msg := (&ValidationError{FilePath: v.file, Field: field, Message: fmt.Sprintf(format, args...)}).Error()
	v.warnings = append(v.warnings, msg)
}

// err returns the first error found, or nil.
func (v *validation) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return v.errs[0]
}

// validateLayer checks the settings present in one layer. Unset fields are
// not errors here; a file may set only the keys it cares about.
func validateLayer(cfg *config.Config, file string) *validation {
	v := &validation{file: file}
	if cfg == nil {
		return v
	}

	if cfg.Mode != "" && !cfg.Mode.IsValid() {
		v.fail("mode", "invalid mode %q; must be one of: whole, changed, lines, offsets", cfg.Mode)
	}
	if cfg.Format != "" && !cfg.Format.IsValid() {
		v.fail("format", "invalid format %q; must be one of: text, json, diff", cfg.Format)
	}
	if cfg.Timeout < 0 {
		v.fail("timeout", "timeout must be >= 0 (0 means no limit)")
	}
	if cfg.Jobs < 0 {
		v.fail("jobs", "jobs must be >= 0 (0 means auto)")
	}
	switch fsutil.BackupMode(cfg.Backups.Mode) {
	case "", fsutil.BackupModeSidecar, fsutil.BackupModeNone:
	default:
		v.fail("backups.mode", "invalid backup mode %q; must be one of: sidecar, none", cfg.Backups.Mode)
	}

	known := make(map[string]bool)
	for _, ext := range langdetect.Extensions(langdetect.SupportedLanguages()...) {
		known[ext] = true
	}
	for i, ext := range cfg.Extensions {
		field := fmt.Sprintf("extensions[%d]", i)
		switch {
		case !strings.HasPrefix(ext, "."):
			v.fail(field, "extension %q must start with a dot", ext)
		case !known[strings.ToLower(ext)]:
			v.warn(field, "no supported language uses %q; files will be sent to the formatter as-is", ext)
		}
	}

	for i, pattern := range cfg.Ignore {
		if _, err := filepath.Match(pattern, ""); err != nil {
			v.fail(fmt.Sprintf("ignore[%d]", i), "invalid glob pattern: %v", err)
		}
	}

	return v
}

// validateResolved checks the merged configuration, which unlike a single
// layer must name a formatter.
func validateResolved(cfg *config.Config) *validation {
	v := validateLayer(cfg, "")
	if cfg != nil && strings.TrimSpace(cfg.Binary) == "" {
		v.fail("binary", "binary must not be empty")
	}
	return v
}
