package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ramanasai/freeflow/internal/prefs"
)

type palette struct {
	fg, dim, accent, warn, bar, cursorLine lipgloss.Color
}

var (
	darkPalette = palette{
		fg:         lipgloss.Color("#CDD6F4"),
		dim:        lipgloss.Color("#7F849C"),
		accent:     lipgloss.Color("#A6E3A1"),
		warn:       lipgloss.Color("#F38BA8"),
		bar:        lipgloss.Color("#313244"),
		cursorLine: lipgloss.Color("#1E1E2E"),
	}
	lightPalette = palette{
		fg:         lipgloss.Color("#4C4F69"),
		dim:        lipgloss.Color("#8C8FA1"),
		accent:     lipgloss.Color("#40A02B"),
		warn:       lipgloss.Color("#D20F39"),
		bar:        lipgloss.Color("#DCE0E8"),
		cursorLine: lipgloss.Color("#EFF1F5"),
	}
)

type style struct {
	topBar      lipgloss.Style
	statusBar   lipgloss.Style
	title       lipgloss.Style
	borderFocus lipgloss.Style
	borderDim   lipgloss.Style

	text       lipgloss.Style
	textDim    lipgloss.Style
	selected   lipgloss.Style
	timerLive  lipgloss.Style
	notice     lipgloss.Style
	cursorLine lipgloss.Style

	modalBox   lipgloss.Style
	modalTitle lipgloss.Style
}

func newStyle(t prefs.Theme) style {
	p := lightPalette
	if t == prefs.Dark {
		p = darkPalette
	}
	return style{
		topBar:      lipgloss.NewStyle().Foreground(p.fg).Background(p.bar).Padding(0, 1),
		statusBar:   lipgloss.NewStyle().Foreground(p.dim).Background(p.bar).Padding(0, 1),
		title:       lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		borderFocus: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.accent).Padding(0, 1),
		borderDim:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.dim).Padding(0, 1),
		text:        lipgloss.NewStyle().Foreground(p.fg),
		textDim:     lipgloss.NewStyle().Foreground(p.dim).Faint(true),
		selected:    lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		timerLive:   lipgloss.NewStyle().Bold(true).Foreground(p.warn),
		notice:      lipgloss.NewStyle().Bold(true).Foreground(p.warn),
		cursorLine:  lipgloss.NewStyle().Background(p.cursorLine),
		modalBox:    lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(p.warn).Padding(1, 3),
		modalTitle:  lipgloss.NewStyle().Bold(true).Foreground(p.warn),
	}
}

func (s style) border(focused bool) lipgloss.Style {
	if focused {
		return s.borderFocus
	}
	return s.borderDim
}
