// Package cli provides the Cobra command structure for regionfmt.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/regionfmt/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root regionfmt command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "regionfmt",
		Short: "Format the regions of source files that matter",
		Long: `regionfmt runs clang-format (or a compatible formatter) over whole files,
chosen line ranges, byte selections, or only the lines changed since the
last commit, and merges the formatter's replacements back into the files.

Line endings are preserved, writes are atomic, and a file is never touched
unless the formatter's report was read in full.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations:   map[string]string{annotationEnv: "true"},
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errUsage, err)
	})

	// Add subcommands.
	rootCmd.AddCommand(newFormatCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newDoctorCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	installHelp(rootCmd)

	return rootCmd
}
