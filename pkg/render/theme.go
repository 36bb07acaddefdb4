package render

import "github.com/charmbracelet/lipgloss"

// Level is the severity a line of output is drawn with. Summary metric kinds
// and table statuses both map onto it.
type Level string

const (
	LevelOK      Level = "ok"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelSkipped Level = "skipped"
)

// Look is the icon and style for one level.
type Look struct {
	Icon  string
	Style lipgloss.Style
}

// Theme styles reports by severity. Findings in test sources carry the
// "[TEST] " marker, drawn with TestMarker.
type Theme struct {
	Name       string
	Heading    lipgloss.Style // report labels and section titles
	Detail     lipgloss.Style // remediation text, snippets, durations
	File       lipgloss.Style // file names in rankings
	Count      lipgloss.Style // ranking metrics
	TestMarker lipgloss.Style
	Levels     map[Level]Look
}

// Look returns the look for level, falling back to LevelInfo.
func (t Theme) Look(level Level) Look {
	if l, ok := t.Levels[level]; ok {
		return l
	}
	return t.Levels[LevelInfo]
}

type palette struct {
	ok, info, warning, err, muted, accent string
	icons                                 [5]string // ok, info, warning, error, skipped
}

func fromPalette(name string, p palette) Theme {
	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	return Theme{
		Name:       name,
		Heading:    lipgloss.NewStyle().Bold(true),
		Detail:     fg(p.muted),
		File:       fg(p.accent),
		Count:      fg(p.warning),
		TestMarker: fg(p.accent).Bold(true),
		Levels: map[Level]Look{
			LevelOK:      {Icon: p.icons[0], Style: fg(p.ok)},
			LevelInfo:    {Icon: p.icons[1], Style: fg(p.info)},
			LevelWarning: {Icon: p.icons[2], Style: fg(p.warning)},
			LevelError:   {Icon: p.icons[3], Style: fg(p.err)},
			LevelSkipped: {Icon: p.icons[4], Style: fg(p.muted)},
		},
	}
}

// DefaultTheme uses saturated ANSI 256 colors.
func DefaultTheme() Theme {
	return fromPalette("default", palette{
		ok: "34", info: "39", warning: "214", err: "196", muted: "242", accent: "75",
		icons: [5]string{"✓", "●", "⚠", "✗", "○"},
	})
}

// PastelTheme is a softer variant for light terminals.
func PastelTheme() Theme {
	return fromPalette("pastel", palette{
		ok: "108", info: "110", warning: "179", err: "167", muted: "245", accent: "139",
		icons: [5]string{"✓", "·", "!", "✗", "○"},
	})
}

// MonoTheme has no colors and ASCII icons only.
func MonoTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Name:       "mono",
		Heading:    lipgloss.NewStyle().Bold(true),
		Detail:     plain,
		File:       plain,
		Count:      plain,
		TestMarker: plain,
		Levels: map[Level]Look{
			LevelOK:      {Icon: "+", Style: plain},
			LevelInfo:    {Icon: "*", Style: plain},
			LevelWarning: {Icon: "!", Style: plain},
			LevelError:   {Icon: "x", Style: plain},
			LevelSkipped: {Icon: "-", Style: plain},
		},
	}
}

// ThemeNames lists the themes ThemeByName knows.
var ThemeNames = []string{"default", "pastel", "mono"}

// ThemeByName returns a theme by name, defaulting to DefaultTheme.
func ThemeByName(name string) Theme {
	switch name {
	case "pastel":
		return PastelTheme()
	case "mono":
		return MonoTheme()
	default:
		return DefaultTheme()
	}
}
