package mapper

import (
	"regexp"
	"strconv"
	"strings"
)

// Location is a finding resolved to a source position.
type Location struct {
	File    string // relative to the language source folder
	Test    bool   // file lives under src/test
	Line    int
	Col     int
	Rule    string
	Message string
}

const testMarker = "[TEST] "

var (
	// org/dropProject/Main.java:[3,8] class Main2 is public
	javacRe = regexp.MustCompile(`^(\S+\.java):\[(\d+),(\d+)\] (.*)$`)

	// org/dropProject/Main.kt: (3, 5) Unresolved reference: xpto
	kotlincRe = regexp.MustCompile(`^(\S+\.kts?): \((\d+), (\d+)\) (.*)$`)

	// org/dropProject/Main.java:5:5: Missing a Javadoc comment. [JavadocMethod]
	checkstyleRe = regexp.MustCompile(`^(\S+\.java):(\d+)(?::(\d+))?: (.*?)(?: \[(\w+)\])?$`)

	// VariableNaming - [Xpto] at org/dropProject/Main.kt:3:9
	detektRe = regexp.MustCompile(`^(.*?) - (?:\[[^\]]*\] )?at (\S+\.kts?):(\d+):(\d+)`)

	// org.dropProject.Main:12 Rule:UnusedLocalVariable Priority:3 Avoid unused local variables.
	pmdRe = regexp.MustCompile(`^([\w.$]+):(\d+) Rule:(\w+) Priority:\d+ (.*)$`)

	identRe = regexp.MustCompile(`^\w+$`)
)

// ParseLocation extracts a source position from a compiler, Checkstyle or
// Detekt line as printed in a build report. It returns false for lines that
// carry no position, such as compiler continuation lines.
func ParseLocation(line string) (Location, bool) {
	var loc Location
	if strings.HasPrefix(line, testMarker) {
		loc.Test = true
		line = strings.TrimPrefix(line, testMarker)
	}

	if m := javacRe.FindStringSubmatch(line); m != nil {
		loc.File, loc.Line, loc.Col = m[1], atoi(m[2]), atoi(m[3])
		loc.Rule, loc.Message = "compile", m[4]
		return loc, true
	}
	if m := kotlincRe.FindStringSubmatch(line); m != nil {
		loc.File, loc.Line, loc.Col = m[1], atoi(m[2]), atoi(m[3])
		loc.Rule, loc.Message = "compile", m[4]
		return loc, true
	}
	if m := checkstyleRe.FindStringSubmatch(line); m != nil {
		loc.File, loc.Line, loc.Col = m[1], atoi(m[2]), atoi(m[3])
		loc.Rule, loc.Message = m[5], m[4]
		if loc.Rule == "" {
			loc.Rule = "checkstyle"
		}
		return loc, true
	}
	if m := detektRe.FindStringSubmatch(line); m != nil {
		loc.File, loc.Line, loc.Col = m[2], atoi(m[3]), atoi(m[4])
		loc.Rule, loc.Message = "detekt", line
		// Untranslated rules keep their identifier.
		if identRe.MatchString(m[1]) {
			loc.Rule = m[1]
		}
		return loc, true
	}
	return Location{}, false
}

// ParsePMD resolves a PMD violation to the Java source of its class.
func ParsePMD(line string) (Location, bool) {
	m := pmdRe.FindStringSubmatch(line)
	if m == nil {
		return Location{}, false
	}
	class := m[1]
	if i := strings.Index(class, "$"); i >= 0 {
		class = class[:i]
	}
	return Location{
		File:    strings.ReplaceAll(class, ".", "/") + ".java",
		Line:    atoi(m[2]),
		Rule:    m[3],
		Message: m[4],
	}, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
