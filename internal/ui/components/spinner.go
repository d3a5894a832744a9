package components

import (
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mixingo/mixingo/internal/ui/theme"
)

// Spinner wraps bubbles/spinner with a dim label.
type Spinner struct {
	Model spinner.Model
	Label string
}

// NewSpinner creates a spinner showing label.
func NewSpinner(label string) Spinner {
	return Spinner{
		Model: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Secondary)),
		),
		Label: label,
	}
}

// Tick starts the animation.
func (s Spinner) Tick() tea.Cmd {
	return s.Model.Tick
}

// Update advances the animation on its own tick messages.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	var cmd tea.Cmd
	s.Model, cmd = s.Model.Update(msg)
	return s, cmd
}

// View renders the spinner centered in width.
func (s Spinner) View(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render("\n\n" + s.Model.View() + " " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(s.Label))
}
