// Package fakeformat turns a test binary into a stand-in for clang-format.
//
// A test package calls Main from TestMain. When the process was started with
// the mode variable set, Main behaves like the formatter and exits; otherwise
// it returns and the tests run. Tests point the formatter binary at
// os.Args[0] and pass Env(mode) to the child.
package fakeformat

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvMode selects the fake's behavior in the child process.
const EnvMode = "REGIONFMT_FAKE_FORMATTER"

// EnvReport holds the verbatim report for ModeReport.
const EnvReport = "REGIONFMT_FAKE_REPORT"

// Modes.
const (
	// ModeSpaces puts spaces around every '=' inside the requested regions.
	ModeSpaces = "spaces"

	// ModeReport writes the contents of EnvReport to stdout.
	ModeReport = "report"

	// ModeFail writes a diagnostic to stderr and exits with status 1.
	ModeFail = "fail"

	// ModeHang sleeps far longer than any test timeout.
	ModeHang = "hang"

	// ModeArgs writes its arguments to stdout, one per line.
	ModeArgs = "args"
)

// Version is what the fake prints for --version.
const Version = "fake clang-format version 18.1.8"

// FailMessage is what ModeFail writes to stderr.
const FailMessage = "error: unknown style 'bogus'\n"

// Env returns the environment entries that select mode in the child.
func Env(mode string, extra ...string) []string {
	return append([]string{EnvMode + "=" + mode}, extra...)
}

// ReportEnv returns the environment for ModeReport with the given report.
func ReportEnv(report string) []string {
	return Env(ModeReport, EnvReport+"="+report)
}

// Main runs the fake formatter and exits if this process is a fake child.
func Main() {
	mode := os.Getenv(EnvMode)
	if mode == "" {
		return
	}
	os.Exit(run(mode, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(mode string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	for _, arg := range args {
		if arg == "--version" {
			fmt.Fprintln(stdout, Version)
			return 0
		}
	}

	switch mode {
	case ModeReport:
		fmt.Fprint(stdout, os.Getenv(EnvReport))
		return 0
	case ModeFail:
		fmt.Fprint(stderr, FailMessage)
		return 1
	case ModeHang:
		time.Sleep(time.Minute)
		return 0
	case ModeArgs:
		for _, arg := range args {
			fmt.Fprintln(stdout, arg)
		}
		return 0
	case ModeSpaces:
		content, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprint(stdout, spaces(content, args))
		return 0
	default:
		fmt.Fprintf(stderr, "unknown fake mode %q\n", mode)
		return 2
	}
}

// request is the parsed subset of formatter arguments the fake honors.
type request struct {
	lines   [][2]int
	offsets [][2]int
	cursor  int
}

func parseArgs(args []string) request {
	req := request{cursor: -1}
	pendingOffset := -1
	for _, arg := range args {
		name, value, _ := strings.Cut(arg, "=")
		switch name {
		case "-lines":
			startStr, endStr, _ := strings.Cut(value, ":")
			start, _ := strconv.Atoi(startStr)
			end, _ := strconv.Atoi(endStr)
			req.lines = append(req.lines, [2]int{start, end})
		case "-offset":
			pendingOffset, _ = strconv.Atoi(value)
		case "-length":
			length, _ := strconv.Atoi(value)
			req.offsets = append(req.offsets, [2]int{pendingOffset, pendingOffset + length})
		case "-cursor":
			req.cursor, _ = strconv.Atoi(value)
		}
	}
	return req
}

func (r request) selects(content []byte, off int) bool {
	if len(r.lines) == 0 && len(r.offsets) == 0 {
		return true
	}
	for _, rng := range r.offsets {
		if off >= rng[0] && off < rng[1] {
			return true
		}
	}
	line := 1 + strings.Count(string(content[:off]), "\n")
	for _, rng := range r.lines {
		if line >= rng[0] && line <= rng[1] {
			return true
		}
	}
	return false
}

// spaces builds a report replacing each bare '=' with " = ".
func spaces(content []byte, args []string) string {
	req := parseArgs(args)

	var out strings.Builder
	out.WriteString("<?xml version='1.0'?>\n<replacements xml:space='preserve' incomplete_format='false'>\n")

	shift := 0
	for i, c := range content {
		if c != '=' || !req.selects(content, i) {
			continue
		}
		if (i > 0 && content[i-1] == ' ') || (i+1 < len(content) && content[i+1] == ' ') {
			continue
		}
		fmt.Fprintf(&out, "<replacement offset='%d' length='1'> = </replacement>\n", i)
		if req.cursor > i {
			shift += 2
		}
	}

	if req.cursor >= 0 {
		fmt.Fprintf(&out, "<cursor>%d</cursor>\n", req.cursor+shift)
	}
	out.WriteString("</replacements>\n")
	return out.String()
}
