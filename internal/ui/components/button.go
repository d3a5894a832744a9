package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mixingo/mixingo/internal/ui/theme"
)

// Button is a single call to action. It fires only while both focused and
// enabled; a focused but disabled button renders dim with its marker.
type Button struct {
	Label   string
	Focused bool
	Enabled bool
	OnPress func() tea.Cmd
}

// NewButton creates an unfocused button.
func NewButton(label string, enabled bool, onPress func() tea.Cmd) Button {
	return Button{Label: label, Enabled: enabled, OnPress: onPress}
}

// Update fires OnPress on enter or space.
func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || !b.Focused || !b.Enabled || b.OnPress == nil {
		return b, nil
	}
	switch kmsg.String() {
	case "enter", "space":
		return b, b.OnPress()
	}
	return b, nil
}

func (b Button) View() string {
	marker := "  "
	if b.Focused {
		marker = lipgloss.NewStyle().Foreground(theme.Primary).Render("▸ ")
	}
	switch {
	case !b.Enabled:
		return marker + theme.ButtonInactive.Render(b.Label)
	case b.Focused:
		return marker + theme.ButtonActive.Render(b.Label+" →")
	default:
		return marker + theme.ButtonActive.Faint(true).Render(b.Label)
	}
}
