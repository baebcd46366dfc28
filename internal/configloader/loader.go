// Package configloader resolves regionfmt's configuration from its layers:
// defaults, system, user and project files, an explicit --config file,
// REGIONFMT_* variables, and command-line flags.
package configloader

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/regionfmt/pkg/config"
)

// ErrConfigExists is returned by WriteConfigFile when the target exists and
// overwrite was not requested.
var ErrConfigExists = errors.New("config file already exists")

// LoadOptions controls which layers Load reads.
type LoadOptions struct {
	// WorkingDir anchors the project config search. Defaults to the
	// process working directory.
	WorkingDir string

	// ExplicitPath is the --config file, layered above the project config.
	ExplicitPath string

	IgnoreSystemConfig  bool
	IgnoreUserConfig    bool
	IgnoreProjectConfig bool
	IgnoreEnv           bool

	// CLIConfig holds flag values. Only its non-zero fields apply.
	CLIConfig *config.Config
}

// LoadResult is the resolved configuration and where it came from.
type LoadResult struct {
	Config *config.Config
	Paths  *ConfigPaths

	// LoadedFrom lists the files read, lowest precedence first.
	LoadedFrom []string

	Warnings []string
}

// Load merges the layers, each overriding the ones before it:
// defaults, system, user, project, explicit file, environment, flags.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		workDir = wd
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover config: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	for _, layer := range []struct {
		path string
		skip bool
	}{
		{paths.System, opts.IgnoreSystemConfig},
		{paths.User, opts.IgnoreUserConfig},
		{paths.Project, opts.IgnoreProjectConfig},
		{paths.Explicit, false},
	} {
		if layer.skip || layer.path == "" {
			continue
		}
		fileCfg, err := readConfigFile(layer.path)
		if err != nil {
			return nil, err
		}
		cfg = merge(cfg, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("environment: %w", err)
		}
	}
	cfg = merge(cfg, opts.CLIConfig)

	v := validateResolved(cfg)
	if err := v.err(); err != nil {
		return nil, err
	}
	result.Warnings = v.warnings
	result.Config = cfg
	return result, nil
}

// readConfigFile parses and validates one layer.
func readConfigFile(path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := config.FromYAML(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := validateLayer(cfg, path).err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteConfigFile writes content to path. Without overwrite an existing file
// is left alone and ErrConfigExists is returned.
func WriteConfigFile(path string, content []byte, overwrite bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%s: %w", path, ErrConfigExists)
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	_, err = f.Write(content)
	if err = errors.Join(err, f.Close()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
