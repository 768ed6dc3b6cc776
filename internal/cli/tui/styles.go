package tui

import "github.com/charmbracelet/lipgloss"

// Styles contains all lipgloss styles for the dashboard
type Styles struct {
	// Header styling
	Title   lipgloss.Style
	Updated lipgloss.Style

	// Counter styling
	Waiting   lipgloss.Style
	Active    lipgloss.Style
	Completed lipgloss.Style
	Failed    lipgloss.Style
	Label     lipgloss.Style

	// Progress bar colors
	ProgressFilled lipgloss.Style
	ProgressEmpty  lipgloss.Style

	// Notification log
	NoticeInfo  lipgloss.Style
	NoticeError lipgloss.Style

	// Footer styling
	Footer    lipgloss.Style
	FooterKey lipgloss.Style
}

// DefaultStyles returns the default dashboard styles
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Updated: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

		Waiting:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Active:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Completed: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Failed:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Label:     lipgloss.NewStyle().Foreground(lipgloss.Color("250")),

		ProgressFilled: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		ProgressEmpty:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),

		NoticeInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		NoticeError: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),

		Footer:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")).MarginTop(1),
		FooterKey: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	}
}
