package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/regionfmt/internal/logging"
	"github.com/yaklabco/regionfmt/internal/ui/pretty"
	"github.com/yaklabco/regionfmt/pkg/config"
	"github.com/yaklabco/regionfmt/pkg/formatter"
	"github.com/yaklabco/regionfmt/pkg/langdetect"
)

type doctorFlags struct {
	binary     string
	format     string
	showConfig bool
}

// doctorReport is the JSON form of the doctor checks.
type doctorReport struct {
	Formatter   toolCheck `json:"formatter"`
	Git         toolCheck `json:"git"`
	ConfigFiles []string  `json:"config_files"`
	Style       string    `json:"style"`
	StyleFile   string    `json:"style_file,omitempty"`
	Languages   []string  `json:"languages"`

	// EffectiveConfig is the merged configuration as YAML, with --show-config.
	EffectiveConfig string `json:"effective_config,omitempty"`
}

// toolCheck is the outcome of locating one external program.
type toolCheck struct {
	Binary  string `json:"binary"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (c toolCheck) ok() bool { return c.Error == "" }

func newDoctorCommand() *cobra.Command {
	flags := &doctorFlags{}

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the formatter and git setup",
		Long: `Locate the formatter and git executables, print their versions, and
list the configuration files that apply to the current directory.

Exits with status 69 when the formatter cannot be found or run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, flags)
		},
		Annotations: map[string]string{annotationEnv: "true"},
	}

	cmd.Flags().StringVar(&flags.binary, "binary", config.DefaultBinary, "formatter executable")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().BoolVar(&flags.showConfig, "show-config", false, "also print the effective configuration as YAML")

	return cmd
}

func runDoctor(cmd *cobra.Command, flags *doctorFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, logging.Default())

	if flags.format != "text" && flags.format != "json" {
		return fmt.Errorf("%w: invalid format %q: must be text or json", errUsage, flags.format)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	cliCfg := &config.Config{}
	if cmd.Flags().Changed("binary") {
		cliCfg.Binary = flags.binary
	}

	loaded, err := loadConfig(ctx, cmd, workDir, cliCfg)
	if err != nil {
		return err
	}
	cfg := loaded.Config

	report := doctorReport{
		Formatter:   checkFormatter(ctx, cfg),
		Git:         checkGit(cfg.GitBinary),
		ConfigFiles: loaded.LoadedFrom,
		Style:       cfg.Style,
		StyleFile:   loaded.Paths.StyleFile,
		Languages:   langdetect.SupportedLanguages(),
	}
	if flags.showConfig {
		data, err := cfg.ToYAML("")
		if err != nil {
			return err
		}
		report.EffectiveConfig = string(data)
	}

	out := cmd.OutOrStdout()
	if flags.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding doctor report: %w", err)
		}
	} else {
		colorMode, _ := cmd.Flags().GetString("color")
		if err := writeDoctorText(out, pretty.ForWriter(colorMode, out), report); err != nil {
			return withExitCode(ExitIOError, err)
		}
	}

	if !report.Formatter.ok() {
		return withExitCode(ExitUnavailable, ErrFormatFailed)
	}
	return nil
}

func checkFormatter(ctx context.Context, cfg *config.Config) toolCheck {
	invoker := formatter.NewInvoker(cfg.Binary, cfg.Timeout)
	check := toolCheck{Binary: cfg.Binary}

	path, err := invoker.LookPath()
	if err != nil {
		check.Error = err.Error()
		return check
	}
	check.Path = path

	version, err := invoker.Version(ctx)
	if err != nil {
		check.Error = err.Error()
		return check
	}
	check.Version = strings.TrimSpace(version)
	return check
}

func checkGit(binary string) toolCheck {
	if binary == "" {
		binary = config.DefaultGitBinary
	}
	check := toolCheck{Binary: binary}
	path, err := exec.LookPath(binary)
	if err != nil {
		check.Error = err.Error()
		return check
	}
	check.Path = path
	return check
}

func writeDoctorText(w io.Writer, styles *pretty.Styles, report doctorReport) error {
	var b strings.Builder

	writeToolLine(&b, styles, "formatter", report.Formatter)
	writeToolLine(&b, styles, "git", report.Git)
	if !report.Git.ok() {
		b.WriteString(styles.Dim.Render("  --changed is unavailable without git") + "\n")
	}

	b.WriteString(styles.Bold.Render("config") + "\n")
	if len(report.ConfigFiles) == 0 {
		b.WriteString(styles.Dim.Render("  no configuration files, using defaults") + "\n")
	}
	for _, path := range report.ConfigFiles {
		b.WriteString("  " + styles.FilePath.Render(path) + "\n")
	}
	fmt.Fprintf(&b, "%s %s\n", styles.Bold.Render("style"), report.Style)
	if report.StyleFile != "" {
		b.WriteString("  " + styles.FilePath.Render(report.StyleFile) + "\n")
	}
	fmt.Fprintf(&b, "%s %s\n", styles.Bold.Render("languages"), strings.Join(report.Languages, ", "))
	if report.EffectiveConfig != "" {
		b.WriteString("\n" + styles.Dim.Render("# effective configuration") + "\n" + report.EffectiveConfig)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write doctor report: %w", err)
	}
	return nil
}

func writeToolLine(b *strings.Builder, styles *pretty.Styles, label string, check toolCheck) {
	if !check.ok() {
		fmt.Fprintf(b, "%s %s %s\n", styles.Failure.Render("✗"), styles.Bold.Render(label), styles.Error.Render(check.Error))
		return
	}
	detail := check.Path
	if check.Version != "" {
		detail += " (" + check.Version + ")"
	}
	fmt.Fprintf(b, "%s %s %s\n", styles.Success.Render("✓"), styles.Bold.Render(label), detail)
}
