package tui

import "github.com/charmbracelet/lipgloss"

// bamboo palette
var (
	leaf  = lipgloss.AdaptiveColor{Light: "28", Dark: "78"}
	stalk = lipgloss.AdaptiveColor{Light: "94", Dark: "180"}
	muted = lipgloss.AdaptiveColor{Light: "245", Dark: "241"}
	alert = lipgloss.Color("196")
	amber = lipgloss.Color("214")
)

var (
	tabBorder = lipgloss.Border{Bottom: "─"}

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(leaf).
			Border(tabBorder, false, false, true, false).
			BorderForeground(leaf).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(muted).
				Border(tabBorder, false, false, true, false).
				BorderForeground(muted).
				Padding(0, 2)

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(stalk).Padding(0, 1)
	dangerStyle  = lipgloss.NewStyle().Bold(true).Foreground(alert)
	warningStyle = lipgloss.NewStyle().Foreground(amber)
	successStyle = lipgloss.NewStyle().Foreground(leaf)

	docStyle = lipgloss.NewStyle().Margin(1, 2)
)
