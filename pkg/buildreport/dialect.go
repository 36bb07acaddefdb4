package buildreport

import (
	"github.com/cockroachdb/errors"

	"github.com/dkoosis/dpcheck/pkg/assignment"
	"github.com/dkoosis/dpcheck/pkg/scan"
)

// dialect holds the per-language markers. Android projects are Kotlin
// projects as far as the console output is concerned.
type dialect interface {
	// sourceFolder is the folder under src/main and src/test.
	sourceFolder() string
	compileStart() scan.Trigger
	exitMessage() string
	styleActive(lines []string) bool
	styleErrors(b *BuildReport) []string
}

type javaDialect struct{}

type kotlinDialect struct{}

func dialectFor(lang assignment.Language) dialect {
	switch lang {
	case assignment.LanguageJava:
		return javaDialect{}
	case assignment.LanguageKotlin, assignment.LanguageAndroid:
		return kotlinDialect{}
	default:
		panic(errors.AssertionFailedf("unknown language %q", lang))
	}
}

var (
	// [ERROR] COMPILATION ERROR :
	javaCompileStart = scan.Matches(`\[ERROR\] COMPILATION ERROR :.*`)
	// [INFO] --- kotlin-maven-plugin:1.3.50:compile (compile) @ sampleKotlinAssignment ---
	kotlinCompileStart = scan.Matches(`\[INFO\] --- kotlin-maven-plugin:\d+\.\d+\.\d+:compile.*`)
)

func (javaDialect) sourceFolder() string { return "java" }

func (javaDialect) compileStart() scan.Trigger { return javaCompileStart }

func (kotlinDialect) sourceFolder() string { return "kotlin" }

func (kotlinDialect) compileStart() scan.Trigger { return kotlinCompileStart }

func (javaDialect) exitMessage() string {
	return "Invalid call to System.exit(). Please remove this instruction"
}

func (kotlinDialect) exitMessage() string {
	return "Invalid call to System.exit() or exitProcess(). Please remove this instruction"
}

func anyLine(lines []string, t scan.Trigger) bool {
	for _, line := range lines {
		if t(line) {
			return true
		}
	}
	return false
}
