package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mixingo/mixingo/internal/ui/theme"
)

// MenuItem is one entry of a Menu. Hint is shown under the item while it is
// selected.
type MenuItem struct {
	Label    string
	Hint     string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of actions. Navigation wraps around and skips
// disabled items; digits 1-9 activate an item directly.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.Selected = m.step(1)
	return m
}

// step returns the next enabled index in direction dir, or the current
// selection when nothing else is enabled.
func (m Menu) step(dir int) int {
	n := len(m.Items)
	for k := 1; k <= n; k++ {
		i := ((m.Selected+dir*k)%n + n) % n
		if !m.Items[i].Disabled {
			return i
		}
	}
	return m.Selected
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		m.Selected = m.step(-1)
		return m, nil
	case "down", "j":
		m.Selected = m.step(1)
		return m, nil
	case "enter", "space":
		return m, m.activate(m.Selected)
	}

	if i, ok := digitIndex(key); ok && i < len(m.Items) && !m.Items[i].Disabled {
		m.Selected = i
		return m, m.activate(i)
	}
	return m, nil
}

func (m Menu) activate(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	item := m.Items[i]
	if item.Disabled || item.Action == nil {
		return nil
	}
	return item.Action()
}

func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		switch {
		case item.Disabled:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Strikethrough(true).Render("    " + item.Label))
		case i == m.Selected:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  ▸ " + item.Label))
			if item.Hint != "" {
				b.WriteString("\n" + theme.Hint.Render("      "+item.Hint))
			}
		default:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render("    " + item.Label))
		}
		b.WriteString("\n")
	}
	return b.String()
}
