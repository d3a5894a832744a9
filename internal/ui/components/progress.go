package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mixingo/mixingo/internal/ui/theme"
)

// ProgressBar is a one-line meter: label, bar, then an optional suffix such
// as "2/3 answered" or "76%".
type ProgressBar struct {
	Label  string
	Value  float64 // 0..1, clamped when rendering
	Suffix string
	Width  int
}

func NewProgressBar(label string, value float64, width int) ProgressBar {
	return ProgressBar{Label: label, Value: value, Width: width}
}

// WithSuffix returns a copy of p with the given suffix.
func (p ProgressBar) WithSuffix(s string) ProgressBar {
	p.Suffix = s
	return p
}

func (p ProgressBar) View() string {
	var head, tail string
	if p.Label != "" {
		head = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}
	if p.Suffix != "" {
		tail = "  " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(p.Suffix)
	}

	cells := max(p.Width-lipgloss.Width(head)-lipgloss.Width(tail), 4)
	v := min(max(p.Value, 0), 1)
	filled := int(v*float64(cells) + 0.5)

	return head +
		theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", cells-filled)) +
		tail
}
