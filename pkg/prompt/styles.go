package prompt

import "github.com/charmbracelet/lipgloss"

var (
	headingStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})
	fieldErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "5", Dark: "13"})
	successStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("2"))
	alertStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("1"))
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})
)
