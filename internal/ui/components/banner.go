package components

import (
	"charm.land/lipgloss/v2"

	"github.com/mixingo/mixingo/internal/ui/theme"
)

// Banner renders a one-line advisory above screen content. An empty text
// renders nothing.
func Banner(text string, width int) string {
	if text == "" {
		return ""
	}
	w := width - 6
	if w < 20 {
		w = 20
	}
	return theme.Advisory.Width(w).Render(text)
}

// ErrorPanel renders a blocking error with its recovery hint.
func ErrorPanel(text, hint string, width int) string {
	body := lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(text)
	if hint != "" {
		body += "\n\n" + theme.Hint.Render(hint)
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render("\n\n" + body)
}
