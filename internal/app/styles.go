package app

import "github.com/charmbracelet/lipgloss"

var (
	paneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	popupStyle    = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Padding(0, 1)
	listPane      = paneStyle.Copy().BorderForeground(lipgloss.Color("62"))
	previewPane   = paneStyle.Copy().BorderForeground(lipgloss.Color("240"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	titleStyle    = lipgloss.NewStyle().Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	tagStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
	cursorStyle   = lipgloss.NewStyle().Reverse(true)

	fieldStyle        = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	focusedFieldStyle = fieldStyle.Copy().BorderForeground(lipgloss.Color("212"))
)
