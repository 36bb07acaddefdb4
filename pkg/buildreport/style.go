package buildreport

import (
	"strings"

	"github.com/dkoosis/dpcheck/pkg/scan"
)

// Console markers.
const (
	checkstyleStart = "[INFO] Starting audit..."
	checkstyleEnd   = "Audit done."
	detektStart     = "[INFO] --- detekt-maven-plugin"
	detektFinished  = "detekt finished"
	pmdFailure      = "[INFO] PMD Failure"
)

var (
	checkstyleSection = scan.Section{
		Start: scan.Prefix(checkstyleStart),
		End:   scan.Prefix(checkstyleEnd),
	}

	// The plugin prints a banner before the findings, so the first two body
	// lines are never an end marker.
	detektSection = scan.Section{
		Start:     scan.Prefix(detektStart),
		End:       scan.Any(scan.Prefix(detektFinished), scan.Prefix("[INFO]")),
		EndOffset: 2,
	}
)

// CheckstyleValidationActive reports whether the style plugin ran at all.
func (b *BuildReport) CheckstyleValidationActive() bool {
	return b.dialect.styleActive(b.lines)
}

// CheckstyleErrors returns the style findings: Checkstyle warnings for Java,
// translated and deduplicated Detekt findings for Kotlin.
func (b *BuildReport) CheckstyleErrors() []string {
	return b.dialect.styleErrors(b)
}

// PMDErrors returns the PMD violations without their "[INFO] PMD Failure: "
// prefix.
func (b *BuildReport) PMDErrors() []string {
	var out []string
	for _, line := range b.lines {
		if !strings.HasPrefix(line, pmdFailure) {
			continue
		}
		rest := strings.TrimPrefix(line, pmdFailure)
		out = append(out, strings.TrimSpace(strings.TrimPrefix(rest, ":")))
	}
	return out
}

func (javaDialect) styleActive(lines []string) bool {
	return anyLine(lines, scan.Prefix(checkstyleStart))
}

func (kotlinDialect) styleActive(lines []string) bool {
	return anyLine(lines, scan.Prefix(detektStart))
}

// [WARN] /proj/src/main/java/org/dropProject/Main.java:12:5: Missing a Javadoc comment. [JavadocMethod]
func (d javaDialect) styleErrors(b *BuildReport) []string {
	section := checkstyleSection.Lines(b.lines)
	strip := "[WARN] " + b.projectFolder + "/src/main/" + d.sourceFolder() + "/"
	var out []string
	for _, line := range section {
		if !strings.HasPrefix(line, "[WARN] ") {
			continue
		}
		out = append(out, strings.ReplaceAll(line, strip, ""))
	}
	return out
}

// \tVariableNaming - [a] at /proj/src/main/kotlin/Main.kt:3:9
func (d kotlinDialect) styleErrors(b *BuildReport) []string {
	section := detektSection.Lines(b.lines)
	strip := b.projectFolder + "/src/main/" + d.sourceFolder() + "/"
	seen := make(map[string]struct{})
	var out []string
	for _, line := range section {
		if !strings.HasPrefix(line, "\t") || strings.HasPrefix(line, "\t-") {
			continue
		}
		line = strings.TrimPrefix(line, "\t")
		line = strings.ReplaceAll(line, strip, "")
		line = b.translator.Translate(line)
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
