// ABOUTME: Shared lipgloss styles for consistent TUI appearance
// ABOUTME: Defines the palette, panels and text styles used across screens

package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary   = lipgloss.Color("#F97316") // Orange
	Secondary = lipgloss.Color("#10B981") // Green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Danger    = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray
	Text      = lipgloss.Color("#F9FAFB") // Light
	Accent    = lipgloss.Color("#FDBA74") // Light orange
	Surface   = lipgloss.Color("#374151") // Elevated surface background
	Info      = lipgloss.Color("#3B82F6") // Blue

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			MarginBottom(1)

	Label = lipgloss.NewStyle().
		Foreground(Muted).
		Width(11)

	Value = lipgloss.NewStyle().
		Foreground(Text).
		Bold(true)

	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	Error = lipgloss.NewStyle().
		Foreground(Danger).
		Bold(true)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(1, 2)

	ActivePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	Selected = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Normal   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	Help     = lipgloss.NewStyle().Foreground(Muted)
	Key      = lipgloss.NewStyle().Foreground(Accent).Bold(true)
)

// Field renders an aligned "label value" line.
func Field(label, value string) string {
	if value == "" {
		value = "-"
	}
	return Label.Render(label) + " " + Value.Render(value)
}
