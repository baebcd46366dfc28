//go:build stave

package main

import (
	"bytes"
	"cmp"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const binary = "bin/regionfmt"

var Default = Build

var Aliases = map[string]any{
	"b":     Build,
	"t":     Test.Default,
	"l":     Lint.Default,
	"c":     Check,
	"fmt":   Lint.Fmt,
	"smoke": Bench.Smoke,
}

type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
)

// Build compiles bin/regionfmt with version info, unless it is newer than
// every source file.
func Build() error {
	stale, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !stale {
		fmt.Println(binary, "is up to date")
		return nil
	}
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, "./cmd/regionfmt")
}

// Install runs go install with version info.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/regionfmt")
}

// Check formats, lints and tests, in that order.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default)
}

func Clean() error {
	for _, path := range []string{"bin", "coverage.out", "coverage.html"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Default runs every package's tests under the race detector with coverage.
func (Test) Default() error {
	return gotestsum("pkgname-and-test-fails", "-race", "-coverprofile=coverage.out", "-covermode=atomic", "./...")
}

// CLI runs only the end-to-end command tests, which drive the fake formatter.
func (Test) CLI() error {
	return gotestsum("standard-verbose", "-race", "./internal/cli/...")
}

// Fuzz gives each fuzz target a short run.
func (Test) Fuzz() error {
	targets := map[string]string{
		"FuzzReplaceRoundTrip":       "./pkg/fsutil",
		"FuzzRoundTrip":              "./pkg/textpos",
		"FuzzFromDiff":               "./pkg/region",
		"FuzzApplyOrderIndependence": "./pkg/fix",
	}
	for name, pkg := range targets {
		if err := sh.RunV("go", "test", "-run=^$", "-fuzz=^"+name+"$", "-fuzztime=20s", pkg); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func (Lint) Default() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// FmtCheck fails when gofmt would change anything.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return err
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s", out)
	}
	return nil
}

// Gate is what CI runs.
func (CI) Gate() {
	st.SerialDeps(Lint.FmtCheck, CI.Lint, Build, Test.Default, CI.ModTidy, CI.Cross)
}

func (CI) Lint() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	return sh.RunV("golangci-lint", "run", "./...")
}

// ModTidy fails when go mod tidy would change go.mod or go.sum.
func (CI) ModTidy() error {
	files := []string{"go.mod", "go.sum"}
	before := make([][]byte, len(files))
	for i, name := range files {
		data, err := os.ReadFile(name)
		if err != nil {
			return err
		}
		before[i] = data
	}

	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}

	for i, name := range files {
		after, err := os.ReadFile(name)
		if err != nil {
			return err
		}
		if !bytes.Equal(before[i], after) {
			return fmt.Errorf("%s is not tidy", name)
		}
	}
	return nil
}

// Cross builds the binary for each release platform.
func (CI) Cross() error {
	for _, platform := range []string{
		"linux/amd64", "linux/arm64",
		"darwin/amd64", "darwin/arm64",
		"windows/amd64", "freebsd/amd64",
	} {
		goos, goarch, _ := strings.Cut(platform, "/")
		env := map[string]string{"GOOS": goos, "GOARCH": goarch, "CGO_ENABLED": "0"}
		if err := sh.RunWith(env, "go", "build", "-o", os.DevNull, "./cmd/regionfmt"); err != nil {
			return fmt.Errorf("%s: %w", platform, err)
		}
	}
	return nil
}

// Default runs the Go benchmarks.
func (Bench) Default() error {
	return gotestsum("pkgname-and-test-fails", "-run=^$", "-bench=.", "-benchmem", "./...")
}

// Smoke runs the built binary against the real formatter: doctor, then a
// dry run over the working tree.
func (Bench) Smoke() error {
	st.Deps(Build)
	if err := requireTools("clang-format", "git"); err != nil {
		return err
	}
	if err := sh.RunV(binary, "doctor"); err != nil {
		return err
	}
	return sh.RunV(binary, "format", "--dry-run", "--format", "diff", ".")
}

// Timed compares a serial dry run with a parallel one.
func (Bench) Timed() error {
	st.Deps(Build)
	if err := requireTools("clang-format"); err != nil {
		return err
	}

	var elapsed []time.Duration
	for _, jobs := range []string{"1", "0"} {
		start := time.Now()
		if err := sh.Run(binary, "format", "--dry-run", "--jobs", jobs, "."); err != nil {
			return err
		}
		elapsed = append(elapsed, time.Since(start).Round(time.Millisecond))
	}
	fmt.Printf("serial %s, parallel %s\n", elapsed[0], elapsed[1])
	return nil
}

func gotestsum(format string, args ...string) error {
	procs := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	cmd := append([]string{"tool", "gotestsum", "-f", format, "--", "-p", procs, "-parallel", procs}, args...)
	return sh.RunV("go", cmd...)
}

func ldflags() string {
	git := func(args ...string) string {
		out, err := sh.Output("git", args...)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(out)
	}
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s",
		cmp.Or(git("describe", "--tags", "--always", "--dirty"), "dev"),
		cmp.Or(git("rev-parse", "--short", "HEAD"), "none"),
		time.Now().UTC().Format(time.RFC3339))
}

func requireTools(names ...string) error {
	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			return fmt.Errorf("%s is required for this target: %w", name, err)
		}
	}
	return nil
}
