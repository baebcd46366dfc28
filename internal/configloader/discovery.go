package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ConfigPaths lists the configuration files that apply to a working
// directory. Empty fields mean nothing was found at that level.
type ConfigPaths struct {
	System   string
	User     string
	Project  string
	Explicit string

	// StyleFile is the .clang-format file the formatter will pick up for
	// style "file", found by the same upward search as Project.
	StyleFile string
}

// Names searched for at each level, in order of preference.
var (
	projectConfigNames = []string{".regionfmt.yml", ".regionfmt.yaml", "regionfmt.yml", "regionfmt.yaml"}
	globalConfigNames  = []string{"config.yaml", "config.yml"}
	styleFileNames     = []string{".clang-format", "_clang-format"}
)

// DiscoverPaths finds the system, user and project configuration for
// workDir, along with the style file the formatter would use.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	paths := &ConfigPaths{
		System: firstFile(systemConfigDir(), globalConfigNames),
		User:   firstFile(userConfigDir(), globalConfigNames),
	}

	var err error
	if paths.Project, err = searchUp(ctx, workDir, projectConfigNames); err != nil {
		return nil, err
	}
	if paths.StyleFile, err = searchUp(ctx, workDir, styleFileNames); err != nil {
		return nil, err
	}
	return paths, nil
}

// FindProjectConfig returns the nearest project config at or above startDir.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	return searchUp(ctx, startDir, projectConfigNames)
}

func systemConfigDir() string {
	if runtime.GOOS == "windows" {
		base := os.Getenv("ProgramData")
		if base == "" {
			base = `C:\ProgramData`
		}
		return filepath.Join(base, "regionfmt")
	}
	return "/etc/regionfmt"
}

func userConfigDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "regionfmt")
}

// searchUp walks from start toward the filesystem root and returns the first
// file in names found along the way. The walk ends after the directory that
// holds a repository root, or the home directory, whichever comes first.
func searchUp(ctx context.Context, start string, names []string) (string, error) {
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		start = wd
	}

	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", start, err)
	}
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("search for config: %w", err)
		}

		if found := firstFile(dir, names); found != "" {
			return found, nil
		}
		if isRepoRoot(dir) || dir == home {
			return "", nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// isRepoRoot reports whether dir holds a .git, .hg or .svn directory. A .git
// file (worktrees, submodules) counts too.
func isRepoRoot(dir string) bool {
	for _, marker := range []string{".git", ".hg", ".svn"} {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// firstFile returns the first regular file in dir named by names, or "".
func firstFile(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}
