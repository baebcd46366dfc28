package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/regionfmt/internal/configloader"
	"github.com/yaklabco/regionfmt/internal/logging"
	"github.com/yaklabco/regionfmt/pkg/config"
	"github.com/yaklabco/regionfmt/pkg/formatter"
	"github.com/yaklabco/regionfmt/pkg/langdetect"
	"github.com/yaklabco/regionfmt/pkg/reformat"
	"github.com/yaklabco/regionfmt/pkg/region"
	"github.com/yaklabco/regionfmt/pkg/reporter"
	"github.com/yaklabco/regionfmt/pkg/runner"
	"github.com/yaklabco/regionfmt/pkg/textpos"
	"github.com/yaklabco/regionfmt/pkg/vcs"
)

// stdinPath names standard input on the command line.
const stdinPath = "-"

type formatFlags struct {
	lines          []string
	offsets        []int
	lengths        []int
	changed        bool
	style          string
	fallbackStyle  string
	assumeFilename string
	binary         string
	timeout        time.Duration
	format         string
	ignore         []string
	cursor         int
	verbose        bool
	compact        bool
}

// regions is the parsed region selection of one format command.
type regions struct {
	mode    config.Mode
	lines   []region.LineRange
	offsets []region.ByteRange
}

func newFormatCommand() *cobra.Command {
	var cfg config.Config
	flags := &formatFlags{}

	cmd := &cobra.Command{
		Use:   "format [paths...]",
		Short: "Format source files in place",
		Long:  formatLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, &cfg, flags)
		},
		Annotations: map[string]string{annotationEnv: "true"},
	}

	addFormatFlags(cmd, &cfg, flags)

	return cmd
}

const formatLongDescription = `Format source files with clang-format, in place.

By default, formats every file in the current directory tree whose language
the formatter supports. Specify paths to format specific files or directories.
Use "-" to read from standard input and write the result to standard output.

Examples:
  regionfmt format                          # Format the current directory
  regionfmt format src/ include/            # Format two directories
  regionfmt format --changed                # Only lines changed since HEAD
  regionfmt format main.c --lines 10:20     # Only lines 10 through 20
  regionfmt format main.c --offset 120 --length 40
  regionfmt format --dry-run --format diff  # Show changes without writing
  regionfmt format - --assume-filename x.cc --cursor 42 < x.cc`

func runFormat(cmd *cobra.Command, args []string, cfg *config.Config, flags *formatFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.Default()
	ctx = logging.WithLogger(ctx, logger)

	stdin := len(args) == 1 && args[0] == stdinPath
	if !stdin && len(args) > 1 {
		for _, arg := range args {
			if arg == stdinPath {
				return fmt.Errorf("%w: %q cannot be combined with other paths", errUsage, stdinPath)
			}
		}
	}

	sel, err := parseRegions(cmd, flags)
	if err != nil {
		return err
	}
	if err := checkRegionTargets(cmd, args, stdin, sel, flags); err != nil {
		return err
	}

	applyFormatFlags(cmd, cfg, flags, sel)

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loaded, err := loadConfig(ctx, cmd, workDir, cfg)
	if err != nil {
		return err
	}
	finalCfg := loaded.Config
	if cmd.Flags().Changed("timeout") {
		finalCfg.Timeout = flags.timeout
	}
	if sel.mode == "" && (finalCfg.Mode == config.ModeLines || finalCfg.Mode == config.ModeOffsets) {
		return fmt.Errorf("%w: mode %q needs --lines or --offset", errUsage, finalCfg.Mode)
	}

	logger.Debug("configuration loaded",
		logging.FieldBinary, finalCfg.Binary,
		logging.FieldStyle, finalCfg.Style,
		logging.FieldMode, finalCfg.Mode,
		logging.FieldTimeout, finalCfg.Timeout,
		logging.FieldDryRun, finalCfg.DryRun,
		logging.FieldJobs, finalCfg.Jobs)

	invoker := formatter.NewInvoker(finalCfg.Binary, finalCfg.Timeout)
	if _, err := invoker.LookPath(); err != nil {
		return withExitCode(ExitUnavailable, err)
	}
	pipeline := runner.NewPipeline(reformat.New(invoker, vcs.NewDiffer(finalCfg.GitBinary)))

	pipelineOpts := runner.PipelineOptionsFromConfig(finalCfg)
	pipelineOpts.Lines = sel.lines
	pipelineOpts.Offsets = sel.offsets
	pipelineOpts.AssumeFilename = flags.assumeFilename

	if stdin {
		return formatStdin(ctx, cmd, pipeline, pipelineOpts, finalCfg, flags)
	}

	runOpts := runner.OptionsFromConfig(finalCfg, args)
	runOpts.WorkingDir = workDir
	runOpts.Pipeline.Lines = sel.lines
	runOpts.Pipeline.Offsets = sel.offsets
	runOpts.Pipeline.AssumeFilename = flags.assumeFilename

	logger.Debug("starting format run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs)

	result, err := runner.New(pipeline).Run(ctx, runOpts)
	if err != nil {
		if runner.IsPipelineError(err) || errors.Is(err, os.ErrNotExist) {
			return withExitCode(ExitIOError, fmt.Errorf("format run failed: %w", err))
		}
		return fmt.Errorf("format run failed: %w", err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      finalCfg.Format,
		Color:       colorMode,
		ShowSummary: true,
		Verbose:     flags.verbose,
		DryRun:      finalCfg.DryRun,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return withExitCode(ExitInvalidUsage, fmt.Errorf("create reporter: %w", err))
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("report results: %w", err))
	}

	return resultError(result, finalCfg.Strict)
}

// formatStdin formats standard input and writes the result to standard output.
func formatStdin(
	ctx context.Context,
	cmd *cobra.Command,
	pipeline *runner.Pipeline,
	opts runner.PipelineOptions,
	cfg *config.Config,
	flags *formatFlags,
) error {
	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("read stdin: %w", err))
	}

	if opts.AssumeFilename == "" {
		opts.AssumeFilename = langdetect.AssumeFilename(content)
	}
	if cmd.Flags().Changed("cursor") {
		cursor := textpos.ByteOffset(flags.cursor)
		opts.Cursor = &cursor
	}

	if cfg.Format == config.FormatDiff {
		opts.DryRun = true
	}

	result, err := pipeline.ProcessContent(ctx, opts.AssumeFilename, content, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if result.Cursor != nil {
		header, err := json.Marshal(cursorHeader{Cursor: int(*result.Cursor), IncompleteFormat: result.Incomplete()})
		if err != nil {
			return fmt.Errorf("encode cursor: %w", err)
		}
		if _, err := fmt.Fprintf(out, "%s\n", header); err != nil {
			return withExitCode(ExitIOError, fmt.Errorf("write stdout: %w", err))
		}
	}

	if cfg.Format == config.FormatDiff {
		_, err = io.WriteString(out, result.Diff.String())
	} else {
		_, err = out.Write(result.Content)
	}
	if err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("write stdout: %w", err))
	}

	if cfg.Strict && result.Incomplete() {
		return ErrIncomplete
	}
	return nil
}

// cursorHeader is the first output line when --cursor is given.
type cursorHeader struct {
	Cursor           int  `json:"Cursor"`
	IncompleteFormat bool `json:"IncompleteFormat"`
}

// parseRegions reads the region selection flags. At most one kind of
// selection may be given.
func parseRegions(cmd *cobra.Command, flags *formatFlags) (regions, error) {
	var sel regions
	kinds := 0

	if len(flags.lines) > 0 {
		kinds++
		sel.mode = config.ModeLines
		for _, spec := range flags.lines {
			r, err := parseLineRange(spec)
			if err != nil {
				return regions{}, err
			}
			sel.lines = append(sel.lines, r)
		}
	}

	if len(flags.offsets) > 0 || len(flags.lengths) > 0 {
		kinds++
		sel.mode = config.ModeOffsets
		if len(flags.offsets) != len(flags.lengths) {
			return regions{}, fmt.Errorf("%w: %d --offset values but %d --length values",
				errUsage, len(flags.offsets), len(flags.lengths))
		}
		for i, off := range flags.offsets {
			r := region.ByteRange{
				Start: textpos.ByteOffset(off),
				End:   textpos.ByteOffset(off + flags.lengths[i]),
			}
			if err := r.Validate(); err != nil || flags.lengths[i] < 0 {
				return regions{}, fmt.Errorf("%w: --offset %d --length %d", errUsage, off, flags.lengths[i])
			}
			sel.offsets = append(sel.offsets, r)
		}
	}

	if flags.changed {
		kinds++
		sel.mode = config.ModeChanged
	}

	if kinds > 1 {
		return regions{}, fmt.Errorf("%w: --lines, --offset and --changed are mutually exclusive", errUsage)
	}

	if cmd.Flags().Changed("cursor") && flags.cursor < 0 {
		return regions{}, fmt.Errorf("%w: --cursor must not be negative", errUsage)
	}

	return sel, nil
}

// parseLineRange parses "S:E" or a single line number "N".
func parseLineRange(spec string) (region.LineRange, error) {
	startStr, endStr, found := strings.Cut(spec, ":")
	if !found {
		endStr = startStr
	}
	start, err := strconv.Atoi(strings.TrimSpace(startStr))
	if err != nil {
		return region.LineRange{}, fmt.Errorf("%w: --lines %q: want START:END", errUsage, spec)
	}
	end, err := strconv.Atoi(strings.TrimSpace(endStr))
	if err != nil {
		return region.LineRange{}, fmt.Errorf("%w: --lines %q: want START:END", errUsage, spec)
	}
	r := region.LineRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return region.LineRange{}, fmt.Errorf("%w: --lines %q: %w", errUsage, spec, err)
	}
	return r, nil
}

// checkRegionTargets rejects selections that cannot apply to the given paths.
func checkRegionTargets(cmd *cobra.Command, args []string, stdin bool, sel regions, flags *formatFlags) error {
	explicitRanges := sel.mode == config.ModeLines || sel.mode == config.ModeOffsets
	if explicitRanges && !stdin && len(args) != 1 {
		return fmt.Errorf("%w: --lines and --offset need exactly one file or %q", errUsage, stdinPath)
	}
	if cmd.Flags().Changed("cursor") && !stdin {
		return fmt.Errorf("%w: --cursor only applies to standard input", errUsage)
	}
	if sel.mode == config.ModeChanged && stdin && flags.assumeFilename == "" {
		return fmt.Errorf("%w: --changed with standard input needs --assume-filename", errUsage)
	}
	return nil
}

// applyFormatFlags copies explicitly set flags into the CLI config layer.
func applyFormatFlags(cmd *cobra.Command, cfg *config.Config, flags *formatFlags, sel regions) {
	changed := cmd.Flags().Changed

	cfg.Mode = sel.mode
	if changed("style") {
		cfg.Style = flags.style
	}
	if changed("fallback-style") {
		cfg.FallbackStyle = flags.fallbackStyle
	}
	if changed("binary") {
		cfg.Binary = flags.binary
	}
	if changed("timeout") {
		cfg.Timeout = flags.timeout
	}
	if changed("format") {
		cfg.Format = config.OutputFormat(flags.format)
	}
	if changed("ignore") {
		cfg.Ignore = flags.ignore
	}
}

// loadConfig resolves the configuration layers under cliCfg and returns the
// merged result with the files it was read from.
func loadConfig(
	ctx context.Context,
	cmd *cobra.Command,
	workDir string,
	cliCfg *config.Config,
) (*configloader.LoadResult, error) {
	logger := logging.FromContext(ctx)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, withExitCode(ExitConfigError, fmt.Errorf("load configuration: %w", err))
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	return loadResult, nil
}

func addFormatFlags(cmd *cobra.Command, cfg *config.Config, flags *formatFlags) {
	cmd.Flags().StringArrayVar(&flags.lines, "lines", nil, "format lines START:END (1-based, inclusive); repeatable")
	cmd.Flags().IntSliceVar(&flags.offsets, "offset", nil, "format from this byte offset; pair with --length; repeatable")
	cmd.Flags().IntSliceVar(&flags.lengths, "length", nil, "number of bytes to format after the matching --offset")
	cmd.Flags().BoolVar(&flags.changed, "changed", false, "format only lines changed since the last commit")
	cmd.Flags().StringVar(&flags.style, "style", config.DefaultStyle, "formatter style, passed through as-is")
	cmd.Flags().StringVar(&flags.fallbackStyle, "fallback-style", config.DefaultFallbackStyle,
		"style used when --style=file finds no style file")
	cmd.Flags().StringVar(&flags.assumeFilename, "assume-filename", "",
		"file name that selects the language (and repository path) of standard input")
	cmd.Flags().StringVar(&flags.binary, "binary", config.DefaultBinary, "formatter executable")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", config.DefaultTimeout, "per-invocation timeout (0 disables)")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "show changes without writing files")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, diff")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "disable backup creation")
	cmd.Flags().BoolVar(&cfg.Strict, "strict", false, "exit with status 2 when formatting is incomplete")
	cmd.Flags().IntVar(&flags.cursor, "cursor", 0, "byte offset of the cursor in standard input; reported after formatting")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "list unchanged files too")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")
}
