package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dkoosis/dpcheck/pkg/pattern"
)

const detailBudget = 3

// LLM renders patterns as terse plain text optimized for AI consumption.
// Zero ANSI codes, deterministic sort, SCOPE line, importance-budgeted truncation.
type LLM struct{}

// NewLLM creates an LLM renderer.
func NewLLM() *LLM {
	return &LLM{}
}

// Render formats all patterns for LLM consumption. Each summary opens a
// SCOPE block; tables and leaderboards that follow it belong to that block.
func (l *LLM) Render(patterns []pattern.Pattern) string {
	var sb strings.Builder
	for _, p := range patterns {
		switch v := p.(type) {
		case *pattern.Summary:
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			l.renderSummary(&sb, v)
		case *pattern.TestTable:
			l.renderTable(&sb, v)
		case *pattern.Leaderboard:
			l.renderLeaderboard(&sb, v)
		}
	}
	return sb.String()
}

func (l *LLM) renderSummary(sb *strings.Builder, s *pattern.Summary) {
	scope := s.Label
	switch s.Kind {
	case pattern.SummaryKindBuild:
		scope = "build " + scope
	case pattern.SummaryKindValidation:
		scope = "validation " + scope
	}
	sb.WriteString("SCOPE: " + scope + "\n")
	for _, m := range s.Metrics {
		sb.WriteString(m.Label + ": " + m.Value + "\n")
	}
}

func (l *LLM) renderTable(sb *strings.Builder, t *pattern.TestTable) {
	if len(t.Results) == 0 {
		return
	}
	items := make([]pattern.TestTableItem, len(t.Results))
	copy(items, t.Results)
	// Severity first; order within a severity is the build log's.
	sort.SliceStable(items, func(i, j int) bool {
		return statusPriority(items[i].Status) < statusPriority(items[j].Status)
	})

	sb.WriteString("\n## " + t.Label + "\n")
	for _, item := range items {
		sb.WriteString("  " + statusPrefix(item.Status) + " " + item.Name)
		if item.Duration != "" {
			sb.WriteString(" (" + item.Duration + ")")
		}
		sb.WriteString("\n")
		if item.Details == "" {
			continue
		}
		lines := strings.Split(item.Details, "\n")
		for _, line := range lines[:min(len(lines), detailBudget)] {
			sb.WriteString("    " + line + "\n")
		}
		if len(lines) > detailBudget {
			sb.WriteString(fmt.Sprintf("    ... (%d more lines)\n", len(lines)-detailBudget))
		}
	}
}

func (l *LLM) renderLeaderboard(sb *strings.Builder, lb *pattern.Leaderboard) {
	if len(lb.Files) == 0 {
		return
	}
	header := lb.Label
	if lb.Capped() {
		header += fmt.Sprintf(" (top %d of %d)", len(lb.Files), lb.TotalFiles)
	}
	sb.WriteString("\n## " + header + "\n")
	for _, f := range lb.Files {
		sb.WriteString(fmt.Sprintf("  %d. %s %s\n", f.Rank, f.Path, f.Metric()))
	}
}

func statusPrefix(status string) string {
	switch status {
	case pattern.StatusFail:
		return "ERR"
	case pattern.StatusWarn:
		return "WARN"
	case pattern.StatusSkip:
		return "SKIP"
	default:
		return "OK"
	}
}

func statusPriority(status string) int {
	switch status {
	case pattern.StatusFail:
		return 0
	case pattern.StatusWarn:
		return 1
	case pattern.StatusSkip:
		return 2
	default:
		return 3
	}
}
