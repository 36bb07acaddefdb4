// Package detect sniffs captured build output to determine which build tool
// produced it.
package detect

import (
	"bufio"
	"bytes"
	"regexp"
)

// Format represents a recognized build output format.
type Format int

const (
	Unknown Format = iota
	Maven          // Maven console output ("[INFO] ..." lines)
	Gradle         // Gradle console output ("> Task :..." lines)
)

func (f Format) String() string {
	switch f {
	case Maven:
		return "maven"
	case Gradle:
		return "gradle"
	default:
		return "unknown"
	}
}

// sniffLines bounds how much of the input is examined.
const sniffLines = 200

var (
	// [INFO] Scanning for projects...
	// [ERROR] COMPILATION ERROR :
	mavenRe = regexp.MustCompile(`^\[(INFO|WARNING|WARN|ERROR)\] `)

	// > Task :compileKotlin FAILED
	// BUILD SUCCESSFUL in 3s
	gradleRe = regexp.MustCompile(`^(> Task :|> Configure project|BUILD (SUCCESSFUL|FAILED) in )`)
)

// Sniff examines the first lines of data and reports the build tool whose
// output they look like. The first recognized line decides.
func Sniff(data []byte) Format {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 0; n < sniffLines && sc.Scan(); n++ {
		line := sc.Bytes()
		switch {
		case mavenRe.Match(line):
			return Maven
		case gradleRe.Match(line):
			return Gradle
		}
	}
	return Unknown
}

// SniffLines is Sniff over output already split into lines.
func SniffLines(lines []string) Format {
	for i, line := range lines {
		if i == sniffLines {
			break
		}
		switch {
		case mavenRe.MatchString(line):
			return Maven
		case gradleRe.MatchString(line):
			return Gradle
		}
	}
	return Unknown
}
