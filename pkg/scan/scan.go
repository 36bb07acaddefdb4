// Package scan locates delimited sections inside captured build output.
//
// A section is the run of lines strictly between a start marker and the first
// end marker that follows it. Markers are expressed as Triggers so that
// prefix, substring and regular-expression checks compose freely.
package scan

import (
	"regexp"
	"strings"
)

// Trigger reports whether a line marks a section boundary.
type Trigger func(line string) bool

// Prefix matches lines that start with p.
func Prefix(p string) Trigger {
	return func(line string) bool { return strings.HasPrefix(line, p) }
}

// Contains matches lines that contain s anywhere.
func Contains(s string) Trigger {
	return func(line string) bool { return strings.Contains(line, s) }
}

// Matches matches lines the expression matches in full.
func Matches(expr string) Trigger {
	re := regexp.MustCompile(`^(?:` + expr + `)$`)
	return re.MatchString
}

// Any matches when at least one trigger does.
func Any(triggers ...Trigger) Trigger {
	return func(line string) bool {
		for _, t := range triggers {
			if t(line) {
				return true
			}
		}
		return false
	}
}

// Range is a half-open [Start, End) index interval over the input lines.
type Range struct {
	Start int
	End   int
}

// Len returns the number of lines in the range.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// Slice returns the lines covered by r. The result aliases lines.
func (r Range) Slice(lines []string) []string {
	if r.Len() == 0 {
		return nil
	}
	return lines[r.Start:r.End]
}

// Section describes a start/end trigger pair.
//
// EndOffset is the number of lines after the start marker that are never
// considered end candidates. Zero means the end search begins on the line
// right after the start marker.
type Section struct {
	Start     Trigger
	End       Trigger
	EndOffset int
}

// Find locates the section in lines. The first start match wins and the end
// search begins after it. When no start marker is present it returns false.
// When the section is never closed the range runs to the end of the input.
func (s Section) Find(lines []string) (Range, bool) {
	startIdx := -1
	for i, line := range lines {
		if s.Start(line) {
			startIdx = i
			break
		}
	}
	if startIdx < 0 {
		return Range{}, false
	}

	r := Range{Start: startIdx + 1, End: len(lines)}
	from := startIdx + 1 + s.EndOffset
	for i := from; i < len(lines); i++ {
		if s.End(lines[i]) {
			r.End = i
			break
		}
	}
	return r, true
}

// Lines returns the lines of the section, or nil when it is absent.
func (s Section) Lines(lines []string) []string {
	r, ok := s.Find(lines)
	if !ok {
		return nil
	}
	return r.Slice(lines)
}

// Find is shorthand for a Section without an end offset.
func Find(lines []string, start, end Trigger) (Range, bool) {
	return Section{Start: start, End: end}.Find(lines)
}
