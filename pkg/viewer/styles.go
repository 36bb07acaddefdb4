package viewer

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	list       lipgloss.Style
	detail     lipgloss.Style
	selected   lipgloss.Style
	unselected lipgloss.Style
	status     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#0077B6")).Padding(0, 1),
		list: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262")).Padding(0, 1),
		detail: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#0077B6")).Padding(0, 1),
		selected:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#3A3A3A")),
		unselected: lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC")),
		status:     lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}
