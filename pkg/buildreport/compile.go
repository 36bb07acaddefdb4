package buildreport

import (
	"strings"

	"github.com/dkoosis/dpcheck/pkg/scan"
)

const (
	failedGoal     = "[ERROR] Failed to execute goal"
	forkedVMMarker = "The forked VM terminated without properly saying goodbye."
)

// Failed goals that only mean the student's code did not compile or did not
// pass its tests.
var benignGoals = []string{
	failedGoal + " org.apache.maven.plugins:maven-surefire-plugin",
	failedGoal + " org.apache.maven.plugins:maven-compiler-plugin",
	failedGoal + " org.jetbrains.kotlin:kotlin-maven-plugin",
}

var (
	compileEnd = scan.Any(scan.Prefix("[INFO] BUILD FAILURE"), scan.Prefix("[INFO] --- "))

	// [ERROR] Failed to execute goal org.jetbrains.kotlin:kotlin-maven-plugin:1.3.50:test-compile (test-compile) on project x: Compilation failure
	testCompileSection = scan.Section{
		Start: scan.Matches(`\[ERROR\] Failed to execute goal org\.jetbrains\.kotlin:kotlin-maven-plugin.*test-compile.*`),
		End:   scan.Prefix("[ERROR] -> [Help 1]"),
	}
)

// ExecutionFailed reports whether the build died for a reason other than a
// compilation or test failure: some goal failed and none of the failed goals
// is a compiler or test-runner goal.
func (b *BuildReport) ExecutionFailed() bool {
	failed := false
	for _, line := range b.lines {
		if !strings.HasPrefix(line, failedGoal) {
			continue
		}
		if isBenignGoal(line) {
			return false
		}
		failed = true
	}
	return failed
}

func isBenignGoal(line string) bool {
	for _, g := range benignGoals {
		if strings.HasPrefix(line, g) {
			return true
		}
	}
	return false
}

// CompilationErrors collects compiler messages for main and test sources.
// Paths under src/main lose their project prefix; paths under src/test are
// marked with "[TEST] ". A test JVM that exits early is reported as an
// invalid System.exit call.
func (b *BuildReport) CompilationErrors() []string {
	var errs []string

	mainSection := scan.Section{Start: b.dialect.compileStart(), End: compileEnd}
	if r, ok := mainSection.Find(b.lines); ok {
		b.logger.Debug("compilation output found", "start", r.Start, "end", r.End)
		errs = append(errs, b.compilerLines(r.Slice(b.lines))...)
	}
	if r, ok := testCompileSection.Find(b.lines); ok {
		b.logger.Debug("test compilation output found", "start", r.Start, "end", r.End)
		errs = append(errs, b.compilerLines(r.Slice(b.lines))...)
	}

	if anyLine(b.lines, scan.Contains(forkedVMMarker)) {
		errs = append(errs, b.dialect.exitMessage())
	}
	return errs
}

func (b *BuildReport) compilerLines(section []string) []string {
	folder := b.dialect.sourceFolder()
	mainPrefix := "[ERROR] " + b.projectFolder + "/src/main/" + folder + "/"
	testPrefix := "[ERROR] " + b.projectFolder + "/src/test/" + folder + "/"

	var out []string
	for _, line := range section {
		if !strings.HasPrefix(line, "[ERROR] ") && !strings.HasPrefix(line, "  ") {
			continue
		}
		line = strings.ReplaceAll(line, mainPrefix, "")
		line = strings.ReplaceAll(line, testPrefix, "[TEST] ")
		out = append(out, line)
	}
	return out
}
