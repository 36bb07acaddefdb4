// Package mapper converts build reports and validation reports into
// visualization patterns and SARIF documents.
package mapper

import (
	"fmt"
	"strings"
	"time"

	"github.com/dkoosis/dpcheck/pkg/buildreport"
	"github.com/dkoosis/dpcheck/pkg/junit"
	"github.com/dkoosis/dpcheck/pkg/pattern"
)

const (
	kindSuccess = "success"
	kindError   = "error"
	kindWarning = "warning"
	kindInfo    = "info"
)

// Table sources.
const (
	SourceCompile    = "compile"
	SourceStyle      = "style"
	SourcePMD        = "pmd"
	SourceTests      = "tests"
	SourceMissing    = "missing-tests"
	SourceValidation = "validation"
)

// BuildFailed reports whether a build report should fail a pipeline: the
// build died or the code did not compile.
func BuildFailed(r *buildreport.BuildReport) bool {
	return r.ExecutionFailed() || len(r.CompilationErrors()) > 0
}

// FromBuildReport converts a build report into patterns: a summary first,
// then one table per non-empty section and, when style findings span
// several files, a leaderboard of the noisiest files.
func FromBuildReport(r *buildreport.BuildReport) []pattern.Pattern {
	compile := joinContinuations(r.CompilationErrors())
	style := r.CheckstyleErrors()
	pmd := r.PMDErrors()
	failed := r.ExecutionFailed()

	var metrics []pattern.SummaryItem
	if failed {
		metrics = append(metrics, pattern.SummaryItem{Label: "Execution", Value: "failed", Kind: kindError})
	} else {
		metrics = append(metrics, pattern.SummaryItem{Label: "Execution", Value: "ok", Kind: kindSuccess})
	}
	metrics = append(metrics, countItem("Compilation", len(compile), "errors", kindError))
	if r.CheckstyleValidationActive() {
		metrics = append(metrics, countItem("Style", len(style), "warnings", kindWarning))
	}
	if len(pmd) > 0 {
		metrics = append(metrics, countItem("PMD", len(pmd), "violations", kindWarning))
	}
	if len(r.JUnitResults()) > 0 {
		metrics = append(metrics, testsItem(r.TestTotals()))
	}
	if r.HasCoverage() {
		lines := r.LineCoverage()
		metrics = append(metrics, pattern.SummaryItem{
			Label: "Coverage",
			Value: fmt.Sprintf("%.1f%% of %d lines", lines.Ratio()*100, lines.Total()),
			Kind:  kindInfo,
		})
	}

	summary := &pattern.Summary{
		Label:   buildLabel(r.Assignment().ID, failed, len(compile), len(style)+len(pmd)),
		Kind:    pattern.SummaryKindBuild,
		Metrics: metrics,
	}
	patterns := []pattern.Pattern{summary}

	if t := lineTable("Compilation errors", SourceCompile, compile, pattern.StatusFail); t != nil {
		patterns = append(patterns, t)
	}
	if t := lineTable("Style warnings", SourceStyle, style, pattern.StatusWarn); t != nil {
		patterns = append(patterns, t)
	}
	if t := lineTable("PMD violations", SourcePMD, pmd, pattern.StatusWarn); t != nil {
		patterns = append(patterns, t)
	}
	if t := testTable(r.JUnitResults()); t != nil {
		patterns = append(patterns, t)
	}
	if t := lineTable("Test methods not run", SourceMissing, r.MissingTestMethods(), pattern.StatusWarn); t != nil {
		patterns = append(patterns, t)
	}
	if lb := fileLeaderboard(r); lb != nil {
		patterns = append(patterns, lb)
	}
	return patterns
}

func buildLabel(id string, failed bool, compile, style int) string {
	label := "BUILD"
	if id != "" {
		label += " " + id
	}
	switch {
	case failed:
		return label + ": execution failed"
	case compile > 0:
		return label + fmt.Sprintf(": %d compilation errors", compile)
	case style > 0:
		return label + fmt.Sprintf(": compiled, %d style warnings", style)
	default:
		return label + ": ok"
	}
}

func countItem(label string, n int, noun, failKind string) pattern.SummaryItem {
	if n == 0 {
		return pattern.SummaryItem{Label: label, Value: "ok", Kind: kindSuccess}
	}
	return pattern.SummaryItem{Label: label, Value: fmt.Sprintf("%d %s", n, noun), Kind: failKind}
}

func testsItem(t junit.Totals) pattern.SummaryItem {
	value := fmt.Sprintf("%d/%d passed", t.Passed, t.Tests)
	if t.Skipped > 0 {
		value += fmt.Sprintf(", %d skipped", t.Skipped)
	}
	kind := kindSuccess
	if !t.OK() {
		kind = kindError
	}
	return pattern.SummaryItem{Label: "Tests", Value: value, Kind: kind}
}

// joinContinuations folds indented compiler lines ("  symbol: ...") into the
// message they belong to.
func joinContinuations(lines []string) []string {
	var out []string
	for _, line := range lines {
		if strings.HasPrefix(line, "  ") && len(out) > 0 {
			out[len(out)-1] += "\n" + line
			continue
		}
		out = append(out, line)
	}
	return out
}

func lineTable(label, source string, lines []string, status string) *pattern.TestTable {
	if len(lines) == 0 {
		return nil
	}
	items := make([]pattern.TestTableItem, 0, len(lines))
	for _, line := range lines {
		name, details, _ := strings.Cut(line, "\n")
		items = append(items, pattern.TestTableItem{Name: name, Status: status, Details: details})
	}
	return &pattern.TestTable{Label: label, Source: source, Results: items}
}

func testTable(results []junit.Result) *pattern.TestTable {
	var items []pattern.TestTableItem
	for _, suite := range results {
		for _, c := range suite.Cases {
			item := pattern.TestTableItem{
				Name:     c.ID(),
				Status:   caseStatus(c.Status),
				Duration: formatDuration(c.Duration),
			}
			if c.Status != junit.StatusPass {
				item.Details = c.Message
				if c.Type != "" && c.Message == "" {
					item.Details = c.Type
				}
			}
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return nil
	}
	return &pattern.TestTable{Label: "Tests", Source: SourceTests, Results: items}
}

func caseStatus(s junit.Status) string {
	switch s {
	case junit.StatusFail, junit.StatusError:
		return pattern.StatusFail
	case junit.StatusSkip:
		return pattern.StatusSkip
	default:
		return pattern.StatusPass
	}
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
