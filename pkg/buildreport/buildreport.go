// Package buildreport turns the captured console output of a Maven run into
// a structured report: compilation errors, style warnings, execution failure
// and the attached test and coverage results.
//
// Every query is computed from the stored output on demand. Nothing is cached
// and nothing mutates the report, so repeated calls return equal results and
// a report may be shared between goroutines.
package buildreport

import (
	"github.com/charmbracelet/log"

	"github.com/dkoosis/dpcheck/internal/logging"
	"github.com/dkoosis/dpcheck/pkg/assignment"
	"github.com/dkoosis/dpcheck/pkg/detekt"
	"github.com/dkoosis/dpcheck/pkg/jacoco"
	"github.com/dkoosis/dpcheck/pkg/junit"
)

// Results carries the parsed reports attached to a build.
type Results struct {
	JUnit       []junit.Result
	Jacoco      []jacoco.Result
	TestMethods []string // assignment test methods as "Class:method"
}

// BuildReport is the output of one build plus everything needed to
// interpret it.
type BuildReport struct {
	lines         []string
	projectFolder string
	cfg           assignment.Config
	results       Results
	dialect       dialect
	translator    *detekt.Translator
	logger        *log.Logger
}

// New stores a private copy of lines. projectFolder is the absolute path of
// the project as it appears in the output; it is stripped from file names.
// Detekt rules are translated to Portuguese; use Builder for other languages.
func New(lines []string, projectFolder string, cfg assignment.Config, res Results) *BuildReport {
	return newReport(lines, projectFolder, cfg, res, nil, nil)
}

func newReport(lines []string, projectFolder string, cfg assignment.Config, res Results,
	tr *detekt.Translator, logger *log.Logger) *BuildReport {
	logger = logging.OrDiscard(logger)
	if tr == nil {
		tr = detekt.Default()
	}
	return &BuildReport{
		lines:         append([]string(nil), lines...),
		projectFolder: projectFolder,
		cfg:           cfg,
		results:       res,
		dialect:       dialectFor(cfg.Language),
		translator:    tr,
		logger:        logger,
	}
}

// Lines returns a copy of the captured output.
func (b *BuildReport) Lines() []string {
	return append([]string(nil), b.lines...)
}

// ProjectFolder returns the folder prefix stripped from reported paths.
func (b *BuildReport) ProjectFolder() string { return b.projectFolder }

// Assignment returns the assignment the build was run for.
func (b *BuildReport) Assignment() assignment.Config { return b.cfg }

// JUnitResults returns the attached test suites.
func (b *BuildReport) JUnitResults() []junit.Result { return b.results.JUnit }

// JacocoResults returns the attached coverage rows.
func (b *BuildReport) JacocoResults() []jacoco.Result { return b.results.Jacoco }

// TestMethods returns the assignment's known test methods.
func (b *BuildReport) TestMethods() []string {
	return append([]string(nil), b.results.TestMethods...)
}

// TestTotals sums the attached test suites.
func (b *BuildReport) TestTotals() junit.Totals {
	return junit.Summarize(b.results.JUnit)
}

// HasCoverage reports whether any coverage rows are attached.
func (b *BuildReport) HasCoverage() bool { return len(b.results.Jacoco) > 0 }

// LineCoverage sums line coverage over the attached coverage rows.
func (b *BuildReport) LineCoverage() jacoco.Counter {
	return jacoco.LineCoverage(b.results.Jacoco)
}

// MissingTestMethods lists assignment test methods that have no matching
// test case in the attached results, in assignment order. It is empty when
// no test results are attached.
func (b *BuildReport) MissingTestMethods() []string {
	if len(b.results.JUnit) == 0 {
		return nil
	}
	ran := make(map[string]struct{})
	for _, r := range b.results.JUnit {
		for _, c := range r.Cases {
			ran[c.ID()] = struct{}{}
		}
	}
	var missing []string
	for _, id := range b.results.TestMethods {
		if _, ok := ran[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
