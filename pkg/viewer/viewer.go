// Package viewer is an interactive browser for rendered reports: a list of
// sections on the left and the selected section, scrollable, on the right.
package viewer

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"

	"github.com/dkoosis/dpcheck/pkg/pattern"
	"github.com/dkoosis/dpcheck/pkg/render"
)

// Section is one entry of the list pane.
type Section struct {
	Title   string
	Failed  bool
	Pattern pattern.Pattern
}

// Sections splits patterns into one section per pattern. A summary is
// titled by its kind; tables and leaderboards by their label.
func Sections(patterns []pattern.Pattern) []Section {
	out := make([]Section, 0, len(patterns))
	for _, p := range patterns {
		s := Section{Pattern: p}
		switch v := p.(type) {
		case *pattern.Summary:
			s.Title = "Summary"
			if v.Kind != "" {
				s.Title = string(v.Kind) + " summary"
			}
			for _, m := range v.Metrics {
				if m.Kind == "error" {
					s.Failed = true
				}
			}
		case *pattern.TestTable:
			s.Title = fmt.Sprintf("%s (%d)", v.Label, len(v.Results))
			for _, r := range v.Results {
				if r.Status == pattern.StatusFail {
					s.Failed = true
				}
			}
		case *pattern.Leaderboard:
			s.Title = v.Label
		default:
			continue
		}
		out = append(out, s)
	}
	return out
}

// Run shows patterns until the user quits or ctx is canceled.
func Run(ctx context.Context, patterns []pattern.Pattern, theme render.Theme) error {
	program := tea.NewProgram(New(Sections(patterns), theme), tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return errors.Wrap(err, "run viewer")
	}
	return nil
}

// Model is the bubbletea model behind Run.
type Model struct {
	sections    []Section
	theme       render.Theme
	styles      styles
	selected    int
	viewport    viewport.Model
	ready       bool
	width       int
	height      int
	listWidth   int
	detailWidth int
}

// New builds a model over sections.
func New(sections []Section, theme render.Theme) Model {
	vp := viewport.New(0, 0)
	vp.SetContent("Nothing to show")
	return Model{sections: sections, theme: theme, styles: defaultStyles(), viewport: vp}
}

// Selected returns the index of the highlighted section.
func (m Model) Selected() int { return m.selected }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.refreshViewport()
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.sections)-1 {
				m.selected++
				m.refreshViewport()
			}
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.listWidth = min(max(m.calculateListWidth(), 22), m.width/2)
		m.detailWidth = m.width - m.listWidth - 1
		// border and padding on both panes, title and status lines
		m.viewport.Width = max(m.detailWidth-4, 10)
		m.viewport.Height = max(m.height-7, 3)
		m.ready = true
		m.refreshViewport()
		return m, nil
	}

	// Remaining keys (pgup, pgdown, mouse) scroll the detail pane.
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) calculateListWidth() int {
	widest := 0
	for _, s := range m.sections {
		widest = max(widest, lipgloss.Width(s.Title)+4)
	}
	return widest + 4
}

func (m *Model) refreshViewport() {
	if m.selected < 0 || m.selected >= len(m.sections) {
		return
	}
	term := render.NewTerminal(m.theme, m.viewport.Width)
	m.viewport.SetContent(term.Render([]pattern.Pattern{m.sections[m.selected].Pattern}))
	m.viewport.GotoTop()
}

func (m Model) View() string {
	if !m.ready {
		return "Loading report..."
	}
	contentHeight := max(m.height-5, 3)

	title := m.styles.title.Render("dpcheck")

	list := fitHeight(m.renderList(), contentHeight)
	listPanel := m.styles.list.Width(m.listWidth).Render(list)

	detail := "Nothing to show"
	if m.selected < len(m.sections) {
		detail = m.viewport.View()
	}
	detailPanel := m.styles.detail.Width(m.detailWidth).Render(fitHeight(detail, contentHeight))

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, detailPanel)
	help := m.styles.status.Render(fmt.Sprintf("↑/↓ sections • pgup/pgdn scroll • q quit  %3.f%%", m.viewport.ScrollPercent()*100))
	return lipgloss.JoinVertical(lipgloss.Left, title, panels, help)
}

func (m Model) renderList() string {
	lines := make([]string, 0, len(m.sections))
	for i, s := range m.sections {
		look := m.theme.Look(render.LevelOK)
		if s.Failed {
			look = m.theme.Look(render.LevelError)
		}
		icon, style := look.Icon, look.Style
		if i == m.selected {
			lines = append(lines, m.styles.selected.Render("▶ "+icon+" "+s.Title))
			continue
		}
		lines = append(lines, m.styles.unselected.Render("  "+style.Render(icon)+" "+s.Title))
	}
	return strings.Join(lines, "\n")
}

// fitHeight pads or truncates s to exactly n lines.
func fitHeight(s string, n int) string {
	lines := strings.Split(s, "\n")
	for len(lines) < n {
		lines = append(lines, "")
	}
	return strings.Join(lines[:n], "\n")
}
