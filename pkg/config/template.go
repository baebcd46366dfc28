package config

import (
	"bytes"
	"fmt"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every key with its default value instead of commenting most of them out.
	Full bool

	// Extensions, when set, are listed in the template in place of the built-in default.
	Extensions []string
}

// templateField is one documented key in the generated template.
type templateField struct {
	key   string
	doc   string
	value string
	// minimal keeps the key uncommented in the minimal template.
	minimal bool
}

// GenerateTemplate creates a commented configuration file template.
func GenerateTemplate(opts TemplateOptions) []byte {
	defaults := NewConfig()

	extensions := "[]"
	if len(opts.Extensions) > 0 {
		quoted := make([]string, len(opts.Extensions))
		for i, ext := range opts.Extensions {
			quoted[i] = fmt.Sprintf("%q", ext)
		}
		extensions = "[" + strings.Join(quoted, ", ") + "]"
	}

	fields := []templateField{
		{
			key:   "binary",
			doc:   "Formatter executable. Looked up on PATH unless it is an absolute path.",
			value: defaults.Binary, minimal: true,
		},
		{
			key:   "style",
			doc:   "Style passed to the formatter as -style. Use \"file\" to pick up the nearest .clang-format.",
			value: fmt.Sprintf("%q", defaults.Style), minimal: true,
		},
		{
			key:   "fallback_style",
			doc:   "Style used when style is \"file\" and no style file is found.",
			value: defaults.FallbackStyle,
		},
		{
			key:   "timeout",
			doc:   "Upper bound for a single formatter run.",
			value: defaults.Timeout.String(),
		},
		{
			key:   "mode",
			doc:   "Default region selection: whole or changed. lines and offsets need command line ranges.",
			value: string(defaults.Mode), minimal: true,
		},
		{
			key:   "extensions",
			doc:   "File extensions picked up when walking directories. Empty means every language the formatter supports.",
			value: extensions,
		},
		{
			key:   "ignore",
			doc:   "Glob patterns for files to skip.",
			value: "\n  - \"third_party/**\"\n  - \"build/**\"",
		},
		{
			key:   "gitignore",
			doc:   "Honor .gitignore files while walking directories.",
			value: "true",
		},
		{
			key:   "backups",
			doc:   "Write a sidecar copy of each file before it is rewritten.",
			value: fmt.Sprintf("\n  enabled: %t\n  mode: %s", defaults.Backups.Enabled, defaults.Backups.Mode),
		},
		{
			key:   "git_binary",
			doc:   "git executable used by --changed.",
			value: defaults.GitBinary,
		},
	}

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n")

	for _, field := range fields {
		buf.WriteString("\n# ")
		buf.WriteString(wrapComment(field.doc, commentWrapWidth))
		buf.WriteString("\n")

		line := field.key + ": " + field.value
		if strings.HasPrefix(field.value, "\n") {
			line = field.key + ":" + field.value
		}
		if !opts.Full && !field.minimal {
			line = "# " + strings.ReplaceAll(line, "\n", "\n# ")
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n# ")
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# regionfmt configuration
# See: https://github.com/yaklabco/regionfmt`
}
