package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yaklabco/regionfmt/pkg/config"
)

const envVarPrefix = "REGIONFMT_"

// envVar binds one REGIONFMT_* variable to the config field it sets.
type envVar struct {
	suffix string
	field  string
	desc   string
	apply  func(cfg *config.Config, value string) error
}

func stringVar(set func(*config.Config, string)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		set(cfg, value)
		return nil
	}
}

func boolVar(set func(*config.Config, bool)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("want true or false, got %q", value)
		}
		set(cfg, b)
		return nil
	}
}

func listVar(set func(*config.Config, []string)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		set(cfg, items)
		return nil
	}
}

var envVars = []envVar{
	{"BINARY", "binary", "Formatter executable",
		stringVar(func(c *config.Config, v string) { c.Binary = v })},
	{"STYLE", "style", "Style passed as -style",
		stringVar(func(c *config.Config, v string) { c.Style = v })},
	{"FALLBACK_STYLE", "fallback_style", "Style passed as -fallback-style",
		stringVar(func(c *config.Config, v string) { c.FallbackStyle = v })},
	{"TIMEOUT", "timeout", "Per-invocation timeout (e.g. 30s)",
		func(c *config.Config, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("want a duration such as 30s, got %q", v)
			}
			c.Timeout = d
			return nil
		}},
	{"MODE", "mode", "Region selection: whole or changed",
		stringVar(func(c *config.Config, v string) { c.Mode = config.Mode(v) })},
	{"EXTENSIONS", "extensions", "Comma-separated file extensions to discover",
		listVar(func(c *config.Config, v []string) { c.Extensions = v })},
	{"IGNORE", "ignore", "Comma-separated list of ignore patterns",
		listVar(func(c *config.Config, v []string) { c.Ignore = v })},
	{"GITIGNORE", "gitignore", "Honor .gitignore files: true or false",
		boolVar(func(c *config.Config, v bool) { c.Gitignore = &v })},
	{"GIT_BINARY", "git_binary", "git executable used by --changed",
		stringVar(func(c *config.Config, v string) { c.GitBinary = v })},
	{"DRY_RUN", "dry_run", "Dry-run mode: true or false",
		boolVar(func(c *config.Config, v bool) { c.DryRun = v })},
	{"JOBS", "jobs", "Number of parallel workers (0 = auto)",
		func(c *config.Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("want an integer, got %q", v)
			}
			c.Jobs = n
			return nil
		}},
	{"FORMAT", "format", "Output format: text, json, or diff",
		stringVar(func(c *config.Config, v string) { c.Format = config.OutputFormat(v) })},
	{"BACKUPS_ENABLED", "backups.enabled", "Write sidecar backups: true or false",
		boolVar(func(c *config.Config, v bool) { c.Backups.Enabled = v })},
	{"BACKUPS_MODE", "backups.mode", "Backup mode: sidecar or none",
		stringVar(func(c *config.Config, v string) { c.Backups.Mode = v })},
	{"NO_BACKUPS", "no_backups", "Disable backups: true or false",
		boolVar(func(c *config.Config, v bool) { c.NoBackups = v })},
	{"STRICT", "strict", "Fail on incomplete formatting: true or false",
		boolVar(func(c *config.Config, v bool) { c.Strict = v })},
}

// LoadFromEnv applies every set REGIONFMT_* variable to cfg. Empty values
// are treated as unset.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}
	for _, ev := range envVars {
		name := envVarPrefix + ev.suffix
		value := os.Getenv(name)
		if value == "" {
			continue
		}
		if err := ev.apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// GetEnvVarName returns the variable that sets the given config field, or "".
func GetEnvVarName(field string) string {
	for _, ev := range envVars {
		if ev.field == field {
			return envVarPrefix + ev.suffix
		}
	}
	return ""
}

// ListEnvVars maps each supported variable to a one-line description.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envVars))
	for _, ev := range envVars {
		vars[envVarPrefix+ev.suffix] = ev.desc
	}
	return vars
}
