package region

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// hunkHeader matches "@@ -<old>[,<n>] +<start>[,<length>] @@".
var hunkHeader = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+(\d+)(?:,(\d+))? @@`)

// FromDiff extracts the changed line ranges of the new file from a unified
// diff produced with zero context lines.
//
// Only hunk headers matter; every other line is skipped. A hunk that adds no
// lines to the new file (a pure deletion) contributes no range.
func FromDiff(diff string) *Set {
	set := NewSet()

	for _, line := range strings.Split(diff, "\n") {
		r, ok := parseHunkHeader(strings.TrimSuffix(line, "\r"))
		if !ok {
			continue
		}
		set.Add(r)
	}

	return set
}

// parseHunkHeader returns the new-file range described by line.
func parseHunkHeader(line string) (LineRange, bool) {
	match := hunkHeader.FindStringSubmatch(line)
	if match == nil {
		return LineRange{}, false
	}

	start, err := strconv.Atoi(match[1])
	if err != nil || start < 1 {
		return LineRange{}, false
	}

	length := 1
	if match[2] != "" {
		length, err = strconv.Atoi(match[2])
		if err != nil {
			return LineRange{}, false
		}
	}
	if length == 0 || length > math.MaxInt-start {
		return LineRange{}, false
	}

	return LineRange{Start: start, End: start + length - 1}, true
}
