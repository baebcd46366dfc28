package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/regionfmt/internal/configloader"
	"github.com/yaklabco/regionfmt/internal/logging"
	"github.com/yaklabco/regionfmt/pkg/config"
	"github.com/yaklabco/regionfmt/pkg/runner"
)

// defaultConfigFile is the file name written by init.
const defaultConfigFile = ".regionfmt.yml"

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new regionfmt configuration file",
		Long: `Create a new .regionfmt.yml configuration file in the current directory
with the default settings. Edit it to choose the formatter binary, style,
file extensions and ignore patterns.

Examples:
  regionfmt init                      Create a minimal .regionfmt.yml
  regionfmt init --full               Write every setting with its default
  regionfmt init --output custom.yml  Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Write every setting instead of the commented minimal template")
	cmd.Flags().StringVarP(&flags.output, "output", "o", defaultConfigFile, "Output file path")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()

	absPath, err := filepath.Abs(flags.output)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	overwrite := flags.force
	if !overwrite {
		if _, statErr := os.Stat(absPath); statErr == nil && isInteractive(cmd) {
			confirmed, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(),
				fmt.Sprintf("%s already exists. Overwrite? [y/N] ", flags.output))
			if err != nil {
				return err
			}
			if !confirmed {
				logger.Info("left existing configuration unchanged", logging.FieldPath, flags.output)
				return nil
			}
			overwrite = true
		}
	}

	content := config.GenerateTemplate(config.TemplateOptions{
		Full:       flags.full,
		Extensions: runner.DefaultExtensions(),
	})

	if err := configloader.WriteConfigFile(absPath, content, overwrite); err != nil {
		if errors.Is(err, configloader.ErrConfigExists) {
			return withExitCode(ExitInvalidUsage,
				fmt.Errorf("file %q already exists; use --force to overwrite", flags.output))
		}
		return withExitCode(ExitIOError, fmt.Errorf("write config: %w", err))
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output)
	logger.Info("run 'regionfmt doctor' to check the formatter setup")

	return nil
}

// isInteractive reports whether the command reads from a terminal.
func isInteractive(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// confirm asks a yes/no question; anything but y or yes is no.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := io.WriteString(out, prompt); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
