package pattern

// SummaryKind identifies what a summary describes so renderers can dispatch
// without inspecting labels.
type SummaryKind string

const (
	SummaryKindBuild      SummaryKind = "build"
	SummaryKindValidation SummaryKind = "validation"
)

// Summary represents high-level metrics and counts.
type Summary struct {
	Label   string
	Kind    SummaryKind
	Metrics []SummaryItem
}

// SummaryItem is a single metric in a summary.
type SummaryItem struct {
	Label string // e.g. "Compilation", "Tests"
	Value string // formatted value
	Kind  string // "success", "error", "warning", "info"; affects coloring
}

func (s *Summary) Type() PatternType { return PatternTypeSummary }
