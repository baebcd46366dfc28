// Package main is the entry point for the regionfmt CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yaklabco/regionfmt/internal/cli"
	"github.com/yaklabco/regionfmt/internal/logging"
	"github.com/yaklabco/regionfmt/pkg/reformat"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Per-file failures were already reported.
		if !cli.IsReported(err) {
			logging.Default().Error("command failed", logging.FieldError, reformat.Describe(err))
		}
		return cli.ExitCode(err)
	}

	return cli.ExitCode(nil)
}
