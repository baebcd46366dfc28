// Package langdetect decides which language a source file is written in and
// whether the formatter can handle it. Detection uses go-enry, with a few
// patterns for content read from stdin where no filename is available.
package langdetect

import (
	"bytes"
	"sort"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language names, as go-enry spells them.
const (
	LangC             = "C"
	LangCPP           = "C++"
	LangObjectiveC    = "Objective-C"
	LangObjectiveCPP  = "Objective-C++"
	LangJava          = "Java"
	LangJavaScript    = "JavaScript"
	LangTypeScript    = "TypeScript"
	LangJSON          = "JSON"
	LangProtobuf      = "Protocol Buffer"
	LangTextProto     = "Protocol Buffer Text Format"
	LangCSharp        = "C#"
	LangVerilog       = "Verilog"
	LangSystemVerilog = "SystemVerilog"
	LangTableGen      = "TableGen"
	LangGLSL          = "GLSL"
)

// supported lists the languages the formatter accepts.
//
//nolint:gochecknoglobals // Read-only lookup table
var supported = map[string]bool{
	LangC:             true,
	LangCPP:           true,
	LangObjectiveC:    true,
	LangObjectiveCPP:  true,
	LangJava:          true,
	LangJavaScript:    true,
	LangTypeScript:    true,
	LangJSON:          true,
	LangProtobuf:      true,
	LangTextProto:     true,
	LangCSharp:        true,
	LangVerilog:       true,
	LangSystemVerilog: true,
	LangTableGen:      true,
	LangGLSL:          true,
}

// DefaultLanguages are the languages formatted when walking directories.
//
//nolint:gochecknoglobals // Read-only defaults
var DefaultLanguages = []string{LangC, LangCPP, LangObjectiveC, LangObjectiveCPP, LangProtobuf}

// Supported reports whether the formatter accepts lang.
func Supported(lang string) bool {
	return supported[lang]
}

// SupportedLanguages returns every language the formatter accepts, sorted.
func SupportedLanguages() []string {
	langs := make([]string, 0, len(supported))
	for lang := range supported {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Detect returns the language of a file, or "" if it cannot be determined.
// path may be empty for content without a name.
func Detect(path string, content []byte) string {
	if path != "" {
		if lang, safe := enry.GetLanguageByExtension(path); safe {
			return lang
		}
		if lang := enry.GetLanguage(path, content); lang != "" {
			return lang
		}
	}
	return detectContent(content)
}

func detectContent(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return ""
	}

	// Strategy 1: Check shebang first (most reliable).
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return lang
	}

	// Strategy 2: Check for language-specific patterns before using classifier.
	if lang := detectByPattern(content); lang != "" {
		return lang
	}

	// Strategy 3: Use classifier restricted to the languages we can format.
	if lang, safe := enry.GetLanguageByClassifier(content, SupportedLanguages()); safe && lang != "" {
		return lang
	}

	return ""
}

// detectByPattern checks for patterns that are highly indicative.
func detectByPattern(content []byte) string {
	text := string(content)
	trimmed := bytes.TrimSpace(content)

	switch {
	case strings.Contains(text, "syntax = \"proto"):
		return LangProtobuf
	case strings.Contains(text, "@interface") || strings.Contains(text, "@implementation") ||
		strings.Contains(text, "#import "):
		return LangObjectiveC
	case (bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))) &&
		bytes.Contains(trimmed, []byte(`":`)):
		return LangJSON
	case strings.Contains(text, "std::") || strings.Contains(text, "namespace ") ||
		strings.Contains(text, "template <") || strings.Contains(text, "#include <iostream>"):
		return LangCPP
	case strings.Contains(text, "public class ") || strings.Contains(text, "import java."):
		return LangJava
	case strings.Contains(text, "#include "):
		return LangC
	}
	return ""
}

// Extensions returns the file extensions go-enry associates with langs,
// sorted and without duplicates.
func Extensions(langs ...string) []string {
	seen := make(map[string]bool)
	var exts []string
	for _, lang := range langs {
		for _, ext := range enry.GetLanguageExtensions(lang) {
			ext = strings.ToLower(ext)
			if !seen[ext] {
				seen[ext] = true
				exts = append(exts, ext)
			}
		}
	}
	sort.Strings(exts)
	return exts
}

// AssumeFilename returns a synthetic name that tells the formatter which
// language content is in, such as "stdin.cpp". Returns "" when the language
// cannot be determined; the formatter then falls back to its own default.
func AssumeFilename(content []byte) string {
	lang := detectContent(content)
	if lang == "" {
		return ""
	}
	exts := enry.GetLanguageExtensions(lang)
	if len(exts) == 0 {
		return ""
	}
	return "stdin" + exts[0]
}
