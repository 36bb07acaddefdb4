// Package pattern holds the views of a build report or validation report
// that renderers draw: a summary of counts, tables of findings and test
// outcomes, and a ranking of the files with the most findings. Patterns
// carry no presentation.
package pattern

// PatternType names a view in JSON output.
type PatternType string

const (
	PatternTypeSummary     PatternType = "summary"
	PatternTypeLeaderboard PatternType = "leaderboard"
	PatternTypeTestTable   PatternType = "test-table"
)

// Pattern is a Summary, TestTable or Leaderboard.
type Pattern interface {
	Type() PatternType
}

// Report returns the label of the first summary in patterns, which names the
// report they were mapped from, or "".
func Report(patterns []Pattern) string {
	for _, p := range patterns {
		if s, ok := p.(*Summary); ok {
			return s.Label
		}
	}
	return ""
}
