// ABOUTME: huh form theme in the application palette
// ABOUTME: Shared by the login, listing, profile and menu forms

package styles

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// FormTheme returns the huh theme used by every form.
func FormTheme() *huh.Theme {
	t := huh.ThemeBase()

	grayLight := lipgloss.Color("#E5E7EB")
	red := lipgloss.Color("#F87171")

	t.Group.Title = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(Muted).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(Primary)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(Muted)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(red).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(red)

	t.Focused.SelectSelector = lipgloss.NewStyle().
		Foreground(Primary).
		SetString("> ")
	t.Focused.Option = lipgloss.NewStyle().
		Foreground(grayLight)
	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)
	t.Focused.NextIndicator = lipgloss.NewStyle().
		Foreground(Primary).
		MarginLeft(1).
		SetString("→")
	t.Focused.PrevIndicator = lipgloss.NewStyle().
		Foreground(Primary).
		MarginRight(1).
		SetString("←")

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(Primary)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(Muted)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(Primary)
	t.Focused.TextInput.Text = lipgloss.NewStyle().
		Foreground(grayLight)

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(Primary).
		Padding(0, 2).
		MarginRight(1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(Muted).
		Background(Surface).
		Padding(0, 2).
		MarginRight(1)

	// blurred fields reuse the focused styles, muted
	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(Muted)
	t.Blurred.SelectSelector = lipgloss.NewStyle().
		Foreground(Muted).
		SetString("  ")
	t.Blurred.Option = lipgloss.NewStyle().
		Foreground(Muted)

	return t
}
