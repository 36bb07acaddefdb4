package pattern

import (
	"fmt"
	"path"
)

// Leaderboard ranks the source files of a submission by located findings.
type Leaderboard struct {
	Label      string       `json:"label"`
	Files      []FileIssues `json:"files"`
	TotalFiles int          `json:"totalFiles"` // before the list was capped
}

// FileIssues counts the findings in one project-relative source file.
type FileIssues struct {
	Path       string `json:"path"`
	Issues     int    `json:"issues"`
	Errors     int    `json:"errors"`
	Warnings   int    `json:"warnings"`
	TestSource bool   `json:"testSource,omitempty"`
	Rank       int    `json:"rank"`
}

// ShortName is the file name with its parent directory, e.g. "dp/Main.java".
func (f FileIssues) ShortName() string {
	name := path.Base(f.Path)
	if dir := path.Dir(f.Path); dir != "." {
		name = path.Join(path.Base(dir), name)
	}
	return name
}

// Metric is the count shown next to the file, e.g. "3 issues (1 error)".
func (f FileIssues) Metric() string {
	m := plural(f.Issues, "issue")
	if f.Errors > 0 {
		m += " (" + plural(f.Errors, "error") + ")"
	}
	return m
}

// Capped reports whether some ranked files were left out.
func (l *Leaderboard) Capped() bool { return l.TotalFiles > len(l.Files) }

func (l *Leaderboard) Type() PatternType { return PatternTypeLeaderboard }

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
