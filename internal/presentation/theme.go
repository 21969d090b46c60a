// Package presentation renders applications for the terminal. It holds no state
// and no business logic beyond choosing an icon and color per status.
package presentation

import (
	"github.com/charmbracelet/lipgloss"

	"application-admin/internal/models"
)

// Theme is the color palette, as ANSI 256-color codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color
	Header     lipgloss.Color
	Selected   lipgloss.Color

	StatusPending  lipgloss.Color
	StatusApproved lipgloss.Color
	StatusRejected lipgloss.Color

	BarFilled lipgloss.Color
	BarEmpty  lipgloss.Color
	Stars     lipgloss.Color
}

var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("243"),
	Header:     lipgloss.Color("75"),
	Selected:   lipgloss.Color("212"),

	StatusPending:  lipgloss.Color("214"),
	StatusApproved: lipgloss.Color("42"),
	StatusRejected: lipgloss.Color("203"),

	BarFilled: lipgloss.Color("42"),
	BarEmpty:  lipgloss.Color("238"),
	Stars:     lipgloss.Color("220"),
}

// StatusColor returns FaintText for anything outside the three statuses.
func (theme Theme) StatusColor(status models.Status) lipgloss.Color {
	switch status {
	case models.StatusPending:
		return theme.StatusPending
	case models.StatusApproved:
		return theme.StatusApproved
	case models.StatusRejected:
		return theme.StatusRejected
	default:
		return theme.FaintText
	}
}

// StatusIcon returns the glyph shown next to a status.
func StatusIcon(status models.Status) string {
	switch status {
	case models.StatusApproved:
		return "✔"
	case models.StatusRejected:
		return "✘"
	case models.StatusPending:
		return "◷"
	default:
		return "?"
	}
}
