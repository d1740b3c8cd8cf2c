package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusbuddy/internal/focus"
)

type palette struct {
	primary   lipgloss.Color
	accent    lipgloss.Color
	muted     lipgloss.Color
	success   lipgloss.Color
	warning   lipgloss.Color
	err       lipgloss.Color
	fg        lipgloss.Color
	subtle    lipgloss.Color
	highlight lipgloss.Color
}

var darkPalette = palette{
	primary:   "#6C63FF",
	accent:    "#FF6B6B",
	muted:     "#666666",
	success:   "#2ECC71",
	warning:   "#F39C12",
	err:       "#E74C3C",
	fg:        "#C0CAF5",
	subtle:    "#414868",
	highlight: "#7AA2F7",
}

var lightPalette = palette{
	primary:   "#4B44CC",
	accent:    "#D64545",
	muted:     "#8A8A8A",
	success:   "#1E8E4E",
	warning:   "#B86E00",
	err:       "#C0392B",
	fg:        "#24283B",
	subtle:    "#C8CCD8",
	highlight: "#2E59C7",
}

// Current colors. applyTheme swaps them.
var (
	colorPrimary   lipgloss.Color
	colorAccent    lipgloss.Color
	colorMuted     lipgloss.Color
	colorSuccess   lipgloss.Color
	colorWarning   lipgloss.Color
	colorError     lipgloss.Color
	colorFg        lipgloss.Color
	colorSubtle    lipgloss.Color
	colorHighlight lipgloss.Color
)

var (
	activeTabStyle    lipgloss.Style
	inactiveTabStyle  lipgloss.Style
	panelStyle        lipgloss.Style
	activePanelStyle  lipgloss.Style
	titleStyle        lipgloss.Style
	accentStyle       lipgloss.Style
	successStyle      lipgloss.Style
	warningStyle      lipgloss.Style
	errorStyle        lipgloss.Style
	mutedStyle        lipgloss.Style
	highlightStyle    lipgloss.Style
	headerStyle       lipgloss.Style
	footerStyle       lipgloss.Style
	selectedItemStyle lipgloss.Style
	normalItemStyle   lipgloss.Style
	doneItemStyle     lipgloss.Style
)

func init() { applyTheme(focus.ThemeLight) }

// applyTheme rebuilds every style from the palette for t.
func applyTheme(t focus.Theme) {
	p := lightPalette
	if t == focus.ThemeDark {
		p = darkPalette
	}
	colorPrimary = p.primary
	colorAccent = p.accent
	colorMuted = p.muted
	colorSuccess = p.success
	colorWarning = p.warning
	colorError = p.err
	colorFg = p.fg
	colorSubtle = p.subtle
	colorHighlight = p.highlight

	activeTabStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorPrimary).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(colorPrimary).
		Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
		Foreground(colorMuted).
		Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSubtle).
		Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorFg)
	accentStyle = lipgloss.NewStyle().Foreground(colorAccent)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle = lipgloss.NewStyle().Foreground(colorError)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	highlightStyle = lipgloss.NewStyle().Foreground(colorHighlight)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)

	selectedItemStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	normalItemStyle = lipgloss.NewStyle().Foreground(colorFg)
	doneItemStyle = lipgloss.NewStyle().Foreground(colorMuted).Strikethrough(true)
}

// modeStyle colors the clock by timer mode.
func modeStyle(m focus.Mode) lipgloss.Style {
	switch m {
	case focus.ModeShortBreak:
		return successStyle.Bold(true)
	case focus.ModeLongBreak:
		return highlightStyle.Bold(true)
	default:
		return accentStyle.Bold(true)
	}
}
