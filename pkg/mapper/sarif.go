package mapper

import (
	"path"

	"github.com/dkoosis/dpcheck/pkg/buildreport"
	"github.com/dkoosis/dpcheck/pkg/diagnostic"
	"github.com/dkoosis/dpcheck/pkg/junit"
	"github.com/dkoosis/dpcheck/pkg/pattern"
	"github.com/dkoosis/dpcheck/pkg/sarif"
)

// ToolName is the SARIF driver name for every document produced here.
const ToolName = "dpcheck"

// BuildSARIF converts a build report into a SARIF document. Positions are
// resolved to paths relative to the project root when the line carries one.
func BuildSARIF(r *buildreport.BuildReport, version string) *sarif.Builder {
	b := sarif.NewBuilder(ToolName, version)
	folder := r.Assignment().SourceFolder()

	b.Invocation(!r.ExecutionFailed())
	if r.ExecutionFailed() {
		b.Section(sarif.SectionExecution).AddResult("execution", sarif.LevelError,
			"The build failed for a reason other than compilation or test failures", "", 0, 0)
	}
	b.Section(sarif.SectionCompile)
	for _, msg := range joinContinuations(r.CompilationErrors()) {
		addLine(b, "compile", sarif.LevelError, msg, folder)
	}
	b.Section(sarif.SectionStyle)
	for _, msg := range r.CheckstyleErrors() {
		addLine(b, "style", sarif.LevelWarning, msg, folder)
	}
	b.Section(sarif.SectionPMD)
	for _, msg := range r.PMDErrors() {
		if loc, ok := ParsePMD(msg); ok {
			b.AddResult(loc.Rule, sarif.LevelWarning, loc.Message, path.Join("src/main", folder, loc.File), loc.Line, 0)
			continue
		}
		b.AddResult("pmd", sarif.LevelWarning, msg, "", 0, 0)
	}
	b.Section(sarif.SectionTests)
	for _, suite := range r.JUnitResults() {
		for _, c := range suite.Cases {
			if c.Status != junit.StatusFail && c.Status != junit.StatusError {
				continue
			}
			msg := c.ID()
			if c.Message != "" {
				msg += ": " + c.Message
			}
			b.AddResult("test", sarif.LevelError, msg, "", 0, 0)
		}
	}
	return b
}

func addLine(b *sarif.Builder, fallbackRule, level, msg, folder string) {
	loc, ok := ParseLocation(msg)
	if !ok {
		b.AddResult(fallbackRule, level, msg, "", 0, 0)
		return
	}
	root := "src/main"
	if loc.Test {
		root = "src/test"
	}
	b.AddResult(loc.Rule, level, loc.Message, path.Join(root, folder, loc.File), loc.Line, loc.Col)
}

// ValidationSARIF converts validation records into SARIF results without
// locations. INFO records become notes.
func ValidationSARIF(rep *diagnostic.Report, version string) *sarif.Builder {
	b := sarif.NewBuilder(ToolName, version).Section(sarif.SectionStructure)
	for _, rec := range rep.Records() {
		msg := rec.Message
		if rec.Detail != "" {
			msg += "\n" + rec.Detail
		}
		b.AddResult("structure", sarifLevel(rec.Severity), msg, "", 0, 0)
	}
	return b
}

func sarifLevel(s diagnostic.Severity) string {
	switch s {
	case diagnostic.SeverityError:
		return sarif.LevelError
	case diagnostic.SeverityWarning:
		return sarif.LevelWarning
	default:
		return sarif.LevelNote
	}
}

// fileLeaderboard ranks source files by located findings. It returns nil
// unless findings span more than one file.
func fileLeaderboard(r *buildreport.BuildReport) *pattern.Leaderboard {
	topFiles := sarif.TopFiles(BuildSARIF(r, "").Document(), 0)
	if len(topFiles) <= 1 {
		return nil
	}
	total := len(topFiles)
	if len(topFiles) > 10 {
		topFiles = topFiles[:10]
	}

	items := make([]pattern.FileIssues, len(topFiles))
	for i, f := range topFiles {
		items[i] = pattern.FileIssues{
			Path:       f.File,
			Issues:     f.IssueCount,
			Errors:     f.ErrorCount,
			Warnings:   f.WarnCount,
			TestSource: f.TestSource,
			Rank:       i + 1,
		}
	}

	return &pattern.Leaderboard{
		Label:      "Files with Most Issues",
		Files:      items,
		TotalFiles: total,
	}
}
