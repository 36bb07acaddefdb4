package render

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dkoosis/dpcheck/pkg/pattern"
)

// Terminal renders patterns as styled terminal output via lipgloss.
type Terminal struct {
	theme Theme
	width int
	title cases.Caser
}

// NewTerminal creates a terminal renderer with the given theme. Lines are
// truncated to width display cells.
func NewTerminal(theme Theme, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{theme: theme, width: width, title: cases.Title(language.English)}
}

// Render formats all patterns for terminal display.
func (t *Terminal) Render(patterns []pattern.Pattern) string {
	var sections []string
	for _, p := range patterns {
		s := t.renderOne(p)
		if s != "" {
			sections = append(sections, s)
		}
	}
	return strings.Join(sections, "\n")
}

func (t *Terminal) renderOne(p pattern.Pattern) string {
	switch v := p.(type) {
	case *pattern.Summary:
		return t.renderSummary(v)
	case *pattern.Leaderboard:
		return t.renderLeaderboard(v)
	case *pattern.TestTable:
		return t.renderTestTable(v)
	default:
		return ""
	}
}

func (t *Terminal) renderSummary(s *pattern.Summary) string {
	var sb strings.Builder
	if s.Kind != "" {
		sb.WriteString(t.theme.Detail.Render("[" + t.title.String(string(s.Kind)) + "] "))
	}
	if s.Label != "" {
		sb.WriteString(t.theme.Heading.Render(s.Label))
	}
	if s.Kind != "" || s.Label != "" {
		sb.WriteString("\n")
	}
	for _, m := range s.Metrics {
		sb.WriteString("  ")
		look := t.theme.Look(KindLevel(m.Kind))
		sb.WriteString(look.Style.Render(look.Icon + " " + m.Label + ": " + m.Value))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderLeaderboard(l *pattern.Leaderboard) string {
	if len(l.Files) == 0 {
		return ""
	}
	var sb strings.Builder
	if l.Label != "" {
		header := l.Label
		if l.Capped() {
			header += fmt.Sprintf(" (top %d of %d)", len(l.Files), l.TotalFiles)
		}
		sb.WriteString(t.theme.Heading.Render(header))
		sb.WriteString("\n")
	}

	maxName, maxMetric := 0, 0
	for _, f := range l.Files {
		maxName = max(maxName, runewidth.StringWidth(fileLabel(f)))
		maxMetric = max(maxMetric, runewidth.StringWidth(f.Metric()))
	}
	maxName = min(maxName, 50)

	for _, f := range l.Files {
		sb.WriteString("  ")
		sb.WriteString(t.theme.Detail.Render(fmt.Sprintf("%2d. ", f.Rank)))
		name := padRight(runewidth.Truncate(fileLabel(f), maxName, "..."), maxName)
		if rest, ok := strings.CutPrefix(name, testMarker); ok {
			name = t.theme.TestMarker.Render(testMarker) + t.theme.File.Render(rest)
		} else {
			name = t.theme.File.Render(name)
		}
		sb.WriteString(name)
		sb.WriteString("  ")
		sb.WriteString(t.theme.Count.Render(padLeft(f.Metric(), maxMetric)))
		sb.WriteString("\n")
	}
	return sb.String()
}

// fileLabel marks files under src/test the way test findings are marked.
func fileLabel(f pattern.FileIssues) string {
	if f.TestSource {
		return testMarker + f.ShortName()
	}
	return f.ShortName()
}

func (t *Terminal) renderTestTable(tt *pattern.TestTable) string {
	if len(tt.Results) == 0 {
		return ""
	}
	var sb strings.Builder
	if tt.Label != "" {
		sb.WriteString(t.theme.Heading.Render(tt.Label))
		sb.WriteString("\n")
	}

	maxName, maxDur := 0, 0
	for _, r := range tt.Results {
		maxName = max(maxName, runewidth.StringWidth(r.Name))
		maxDur = max(maxDur, runewidth.StringWidth(r.Duration))
	}
	// icon, spaces and duration column
	maxName = min(maxName, max(t.width-maxDur-8, 20))

	for _, r := range tt.Results {
		sb.WriteString("  ")
		look := t.theme.Look(StatusLevel(r.Status))
		sb.WriteString(look.Style.Render(look.Icon + " "))

		name := runewidth.Truncate(r.Name, maxName, "...")
		if r.Duration != "" || r.Count > 0 {
			name = padRight(name, maxName)
		}
		if rest, ok := strings.CutPrefix(name, testMarker); ok {
			sb.WriteString(t.theme.TestMarker.Render(testMarker))
			name = rest
		}
		sb.WriteString(name)

		if r.Count > 0 {
			sb.WriteString(t.theme.Detail.Render(fmt.Sprintf("  %d tests", r.Count)))
		}
		if r.Duration != "" {
			sb.WriteString("  ")
			sb.WriteString(t.theme.Detail.Render(padLeft(r.Duration, maxDur)))
		}

		if r.Details != "" {
			for _, line := range strings.Split(r.Details, "\n") {
				sb.WriteString("\n    ")
				sb.WriteString(t.theme.Detail.Render(runewidth.Truncate(line, t.width-4, "...")))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// testMarker prefixes findings located in test sources.
const testMarker = "[TEST] "

// KindLevel maps a summary metric kind to a level.
func KindLevel(kind string) Level {
	switch kind {
	case "success":
		return LevelOK
	case "error":
		return LevelError
	case "warning":
		return LevelWarning
	default:
		return LevelInfo
	}
}

// StatusLevel maps a table item status to a level.
func StatusLevel(status string) Level {
	switch status {
	case pattern.StatusPass:
		return LevelOK
	case pattern.StatusFail:
		return LevelError
	case pattern.StatusWarn:
		return LevelWarning
	case pattern.StatusSkip:
		return LevelSkipped
	default:
		return LevelInfo
	}
}

func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

func padLeft(s string, width int) string {
	return runewidth.FillLeft(s, width)
}
