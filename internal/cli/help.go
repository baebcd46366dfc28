package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/regionfmt/internal/configloader"
	"github.com/yaklabco/regionfmt/internal/ui/pretty"
)

// annotationEnv marks commands whose help lists the environment variables
// the configuration loader reads.
const annotationEnv = "regionfmt/env"

// helpTemplate renders both --help output and the usage block printed after
// errors. The description is only shown for full help.
const helpTemplate = `
{{- if .Full}}{{with or .Cmd.Long .Cmd.Short}}{{trim .}}

{{end}}{{end -}}
{{heading "Usage:"}}
{{- if .Cmd.Runnable}}
  {{command .Cmd.UseLine}}{{end}}
{{- if .Cmd.HasAvailableSubCommands}}
  {{command .Cmd.CommandPath}} [command]{{end}}
{{- if .Cmd.HasExample}}

{{heading "Examples:"}}
{{dim .Cmd.Example}}{{end}}
{{- if .Cmd.HasAvailableSubCommands}}

{{heading "Commands:"}}{{range .Cmd.Commands}}{{if .IsAvailableCommand}}
  {{command (pad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{end}}
{{- if .Cmd.HasAvailableLocalFlags}}

{{heading "Flags:"}}
{{flags .Cmd.LocalFlags}}{{end}}
{{- if .Cmd.HasAvailableInheritedFlags}}

{{heading "Global Flags:"}}
{{flags .Cmd.InheritedFlags}}{{end}}
{{- if hasEnv .Cmd}}

{{heading "Environment:"}}
{{envVars}}{{end}}
{{- if .Cmd.HasAvailableSubCommands}}

Use "{{command (print .Cmd.CommandPath " [command] --help")}}" for more information about a command.{{end}}
`

// installHelp replaces cobra's help and usage output on root, and so on
// every subcommand, with the styled template. Color is resolved per call
// from the --color flag, after flags have been parsed.
func installHelp(root *cobra.Command) {
	tmpl := template.Must(template.New("help").Funcs(helpFuncs(pretty.NewStyles(false))).Parse(helpTemplate))

	render := func(cmd *cobra.Command, full bool) error {
		mode := "auto"
		if flag := cmd.Root().PersistentFlags().Lookup("color"); flag != nil {
			mode = flag.Value.String()
		}
		out := cmd.OutOrStdout()

		t := template.Must(tmpl.Clone()).Funcs(helpFuncs(pretty.ForWriter(mode, out)))
		data := struct {
			Cmd  *cobra.Command
			Full bool
		}{cmd, full}
		if err := t.Execute(out, data); err != nil {
			return fmt.Errorf("render help: %w", err)
		}
		return nil
	}

	root.SetUsageFunc(func(cmd *cobra.Command) error {
		return render(cmd, false)
	})
	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		if err := render(cmd, true); err != nil {
			cmd.PrintErrln(err)
		}
	})
}

func helpFuncs(styles *pretty.Styles) template.FuncMap {
	return template.FuncMap{
		"heading": styles.Heading.Render,
		"command": styles.Command.Render,
		"dim":     styles.Dim.Render,
		"pad":     padRight,
		"trim":    trimLines,
		"hasEnv":  func(cmd *cobra.Command) bool { return cmd.Annotations[annotationEnv] == "true" },
		"flags":   func(fs *pflag.FlagSet) string { return flagUsages(styles, fs) },
		"envVars": func() string { return envUsages(styles) },
	}
}

// flagUsages lays out one line per visible flag: names and value type in a
// padded column, then the usage text and any non-zero default.
func flagUsages(styles *pretty.Styles, fs *pflag.FlagSet) string {
	type row struct {
		names, varname, usage string
	}

	var rows []row
	width := 0
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		names := "    --" + f.Name
		if f.Shorthand != "" {
			names = "-" + f.Shorthand + ", --" + f.Name
		}
		varname, usage := pflag.UnquoteUsage(f)
		if def := flagDefault(f); def != "" {
			usage += " (default " + def + ")"
		}
		rows = append(rows, row{names: names, varname: varname, usage: usage})
		width = max(width, len(names)+len(varname)+1)
	})

	lines := make([]string, len(rows))
	for i, r := range rows {
		plain := len(r.names) + len(r.varname) + 1
		lines[i] = "  " + styles.Flag.Render(r.names) + " " + styles.Dim.Render(r.varname) +
			strings.Repeat(" ", width-plain+3) + r.usage
	}
	return strings.Join(lines, "\n")
}

// flagDefault formats a flag's default for help, or "" when it is the
// type's zero value.
func flagDefault(f *pflag.Flag) string {
	switch f.DefValue {
	case "", "false", "0", "0s", "[]":
		return ""
	}
	if f.Value.Type() == "string" {
		return fmt.Sprintf("%q", f.DefValue)
	}
	return f.DefValue
}

func envUsages(styles *pretty.Styles) string {
	vars := configloader.ListEnvVars()
	names := make([]string, 0, len(vars))
	width := 0
	for name := range vars {
		names = append(names, name)
		width = max(width, len(name))
	}
	sort.Strings(names)

	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = "  " + styles.Flag.Render(padRight(name, width)) + "   " + vars[name]
	}
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	return strings.Join(lines, "\n")
}
