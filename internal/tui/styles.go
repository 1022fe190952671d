package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	primary   = lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#58a6ff"}
	muted     = lipgloss.AdaptiveColor{Light: "#6e7781", Dark: "#8b949e"}
	danger    = lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#f85149"}
	surface   = lipgloss.AdaptiveColor{Light: "#eaeef2", Dark: "#30363d"}
	highlight = lipgloss.AdaptiveColor{Light: "#1f2328", Dark: "#f0f6fc"}
)

var (
	appStyle       = lipgloss.NewStyle().Padding(1, 2)
	brandStyle     = lipgloss.NewStyle().Bold(true).Foreground(primary)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(highlight).Background(surface).Padding(0, 1)
	tabStyle       = lipgloss.NewStyle().Foreground(muted).Padding(0, 1)
	subtitleStyle  = lipgloss.NewStyle().Foreground(muted)
	statusStyle    = lipgloss.NewStyle().Foreground(muted)
	errorStyle     = lipgloss.NewStyle().
			Bold(true).
			Foreground(danger).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(danger).
			Padding(0, 1)
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(muted).
		BorderBottom(true).
		Bold(true).
		Foreground(primary)
	s.Selected = s.Selected.
		Foreground(highlight).
		Background(surface).
		Bold(true)
	return s
}
