package ui

import "github.com/charmbracelet/lipgloss"

var (
	// ANSI 6 (Cyan) for section titles, readable on light and dark terminals
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	// ANSI 2 (Green) for usage lines
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// ANSI 8 (Gray) keeps descriptions quieter than command names
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// ANSI 3 (Yellow) for flags
	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)
