// Package vcs finds the lines of a document that differ from its committed
// version.
package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/yaklabco/regionfmt/internal/logging"
	"github.com/yaklabco/regionfmt/pkg/fsutil"
	"github.com/yaklabco/regionfmt/pkg/region"
	"github.com/yaklabco/regionfmt/pkg/textpos"
)

// DefaultGitBinary is the git used when none is configured.
const DefaultGitBinary = "git"

var (
	// ErrNoRepository indicates the document is not inside a git work tree.
	ErrNoRepository = errors.New("not inside a git repository")

	// ErrNotTracked indicates the document has no committed version.
	ErrNotTracked = errors.New("file has no committed version")

	// ErrDiffFailed indicates git diff could not compare the two versions.
	ErrDiffFailed = errors.New("git diff failed")
)

// Differ compares documents with their committed versions.
type Differ struct {
	// GitBinary is a path or a name looked up in PATH. Empty means DefaultGitBinary.
	GitBinary string
}

// NewDiffer creates a Differ using gitBinary.
func NewDiffer(gitBinary string) *Differ {
	return &Differ{GitBinary: gitBinary}
}

func (d *Differ) git() string {
	if d.GitBinary == "" {
		return DefaultGitBinary
	}
	return d.GitBinary
}

// ChangedLines returns the lines of content that are new or modified
// relative to the version of path committed at HEAD. A file with no
// committed version counts as changed on every line.
func (d *Differ) ChangedLines(ctx context.Context, path string, content []byte) (*region.Set, error) {
	logger := logging.FromContext(ctx)

	committed, err := d.Committed(path)
	if errors.Is(err, ErrNotTracked) {
		logger.Debug("no committed version, every line counts as changed", logging.FieldPath, path)
		return AllLines(content), nil
	}
	if err != nil {
		return nil, err
	}

	var diff string
	err = fsutil.WithTempFiles(ctx, "regionfmt-*"+filepath.Ext(path), [][]byte{committed, content},
		func(paths []string) error {
			var diffErr error
			diff, diffErr = d.diff(ctx, filepath.Dir(path), paths[0], paths[1])
			return diffErr
		})
	if err != nil {
		return nil, err
	}

	set := region.FromDiff(diff)
	logger.Debug("changed lines", logging.FieldPath, path, logging.FieldRegions, set.Len())
	return set, nil
}

// Committed returns the content of path as committed at HEAD of the
// repository that contains it.
func (d *Differ) Committed(path string) ([]byte, error) {
	abs, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	repo, err := git.PlainOpenWithOptions(filepath.Dir(abs), &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%w: %s", ErrNoRepository, path)
	}
	if err != nil {
		return nil, fmt.Errorf("open repository for %s: %w", path, err)
	}

	worktree, err := repo.Worktree()
	if errors.Is(err, git.ErrIsBareRepository) {
		return nil, fmt.Errorf("%w: %s is in a bare repository", ErrNoRepository, path)
	}
	if err != nil {
		return nil, fmt.Errorf("open worktree for %s: %w", path, err)
	}

	root, err := resolvePath(worktree.Filesystem.Root())
	if err != nil {
		return nil, err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("%w: %s is outside %s", ErrNoRepository, path, root)
	}

	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, fmt.Errorf("%w: repository has no commits", ErrNotTracked)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("get commit %s: %w", head.Hash(), err)
	}

	file, err := commit.File(filepath.ToSlash(rel))
	if errors.Is(err, object.ErrFileNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotTracked, rel)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s at %s: %w", rel, head.Hash(), err)
	}

	contents, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("read %s at %s: %w", rel, head.Hash(), err)
	}
	return []byte(contents), nil
}

// diff runs git diff with no context between two files. git exits 1 when the
// files differ.
func (d *Differ) diff(ctx context.Context, dir, oldPath, newPath string) (string, error) {
	args := []string{
		"diff", "--no-index", "--no-color", "--no-ext-diff", "--ignore-cr-at-eol", "-U0",
		"--", oldPath, newPath,
	}
	cmd := exec.CommandContext(ctx, d.git(), args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if err == nil || (errors.As(err, &exitErr) && exitErr.ExitCode() == 1) {
		return stdout.String(), nil
	}
	if stderr.Len() > 0 {
		return "", fmt.Errorf("%w: %s", ErrDiffFailed, strings.TrimSpace(stderr.String()))
	}
	return "", fmt.Errorf("%w: %w", ErrDiffFailed, err)
}

// AllLines returns one range covering every line of content. Empty content
// has no lines.
func AllLines(content []byte) *region.Set {
	count := textpos.BuildLines(content).Count()
	if len(content) > 0 && content[len(content)-1] == '\n' {
		count--
	}
	if count == 0 {
		return region.NewSet()
	}
	return region.NewSet(region.LineRange{Start: 1, End: count})
}

func resolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	// Resolve symlinks in the directory so the path compares with the
	// worktree root; the file itself may not exist.
	dir, err := filepath.EvalSymlinks(filepath.Dir(abs))
	if err != nil {
		return abs, nil
	}
	return filepath.Join(dir, filepath.Base(abs)), nil
}
