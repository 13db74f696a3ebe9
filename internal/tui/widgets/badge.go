// ABOUTME: Status badge widgets for quick visual status indication
// ABOUTME: Renders listing status as colored inline badges

package widgets

import (
	"github.com/anuncia/anuncia-cli/internal/client"
	"github.com/anuncia/anuncia-cli/internal/tui/icons"
	"github.com/charmbracelet/lipgloss"
)

// Badge colors
var (
	BadgeOKBg      = lipgloss.Color("#10B981")
	BadgeInfoBg    = lipgloss.Color("#3B82F6")
	BadgeNeutralBg = lipgloss.Color("#6B7280")
	BadgeFg        = lipgloss.Color("#FFFFFF")
)

// Badge renders text on a colored background.
func Badge(text string, bg lipgloss.Color) string {
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(BadgeFg).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// statusColor maps a listing status to its badge color.
func statusColor(s client.Status) lipgloss.Color {
	switch s {
	case client.StatusActive:
		return BadgeOKBg
	case client.StatusSold:
		return BadgeInfoBg
	default:
		return BadgeNeutralBg
	}
}

// StatusBadge renders a listing status badge.
func StatusBadge(s client.Status) string {
	return Badge(s.Label(), statusColor(s))
}

// StatusText renders the status label with an icon and no background,
// for places where a badge would break table alignment.
func StatusText(s client.Status) string {
	icon := "•"
	switch s {
	case client.StatusActive:
		icon = icons.CheckOK.String()
	case client.StatusSold:
		icon = "$"
	}
	return icon + " " + s.Label()
}
