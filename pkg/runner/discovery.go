package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// gitignoreFile is the per-directory ignore file honored when Options.Gitignore is set.
const gitignoreFile = ".gitignore"

// Discover finds source files matching opts under the given working directory.
// It returns a deterministically sorted list of absolute file paths.
//
// Files named explicitly are kept regardless of extension, .gitignore and
// hidden-name rules; only ExcludeGlobs apply to them.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	w := &walker{
		opts:       opts,
		workDir:    workDir,
		extensions: normalizeExtensions(opts.effectiveExtensions()),
		exclude:    gitignore.CompileIgnoreLines(opts.ExcludeGlobs...),
		ignores:    make(map[string]*gitignore.GitIgnore),
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, inputPath := range opts.effectivePaths() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("discovery cancelled: %w", ctx.Err())
		default:
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			if !w.excluded(absPath) {
				add(absPath)
			}
			continue
		}

		discovered, err := w.walk(ctx, absPath)
		if err != nil {
			return nil, err
		}
		for _, f := range discovered {
			add(f)
		}
	}

	sort.Strings(files)

	return files, nil
}

// walker carries the matching state for one discovery.
type walker struct {
	opts       Options
	workDir    string
	extensions map[string]bool
	exclude    *gitignore.GitIgnore

	// ignores holds the compiled .gitignore of each visited directory, nil
	// when the directory has none.
	ignores map[string]*gitignore.GitIgnore
}

// walk recursively walks a directory and returns matching source files.
func (w *walker) walk(ctx context.Context, root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		if entry.IsDir() {
			if path != root && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			if path != root && (w.excluded(path) || w.gitignored(path, true)) {
				return filepath.SkipDir
			}
			w.loadGitignore(path)
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			realPath, evalErr := filepath.EvalSymlinks(path)
			if evalErr != nil {
				return nil //nolint:nilerr // Intentionally skip broken symlinks
			}
			info, statErr := os.Stat(realPath)
			if statErr != nil {
				return nil //nolint:nilerr // Intentionally skip inaccessible symlink targets
			}
			if info.IsDir() {
				if !w.opts.FollowSymlinks {
					return nil
				}
				// Walk the target; WalkDir uses Lstat on its root.
				subFiles, err := w.walk(ctx, realPath)
				if err != nil {
					return err
				}
				files = append(files, subFiles...)
				return nil
			}
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		if w.matches(path) {
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

// matches checks if a walked file should be formatted.
func (w *walker) matches(path string) bool {
	if !w.extensions[strings.ToLower(filepath.Ext(path))] {
		return false
	}
	return !w.excluded(path) && !w.gitignored(path, false)
}

// excluded reports whether path matches an ExcludeGlobs pattern.
func (w *walker) excluded(path string) bool {
	if len(w.opts.ExcludeGlobs) == 0 {
		return false
	}
	rel, err := filepath.Rel(w.workDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	return w.exclude.MatchesPath(rel) || w.exclude.MatchesPath(filepath.Base(path))
}

// loadGitignore compiles dir's .gitignore, if any.
func (w *walker) loadGitignore(dir string) {
	if !w.opts.Gitignore {
		return
	}
	if _, ok := w.ignores[dir]; ok {
		return
	}
	var matcher *gitignore.GitIgnore
	if m, err := gitignore.CompileIgnoreFile(filepath.Join(dir, gitignoreFile)); err == nil {
		matcher = m
	}
	w.ignores[dir] = matcher
}

// gitignored checks path against the .gitignore of every visited ancestor directory.
func (w *walker) gitignored(path string, isDir bool) bool {
	if !w.opts.Gitignore {
		return false
	}
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		if matcher := w.ignores[dir]; matcher != nil {
			rel, err := filepath.Rel(dir, path)
			if err == nil {
				rel = filepath.ToSlash(rel)
				if matcher.MatchesPath(rel) || (isDir && matcher.MatchesPath(rel+"/")) {
					return true
				}
			}
		}
		if parent := filepath.Dir(dir); parent == dir {
			return false
		}
	}
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

func normalizeExtensions(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = true
	}
	return set
}
