package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mixingo/mixingo/internal/ui/theme"
)

// MultiChoice is a lettered option list. The cursor moves with the arrow
// keys, Enter chooses the highlighted option and 1-9 choose directly. Once locked the choice
// can no longer change; once revealed the correct options are colored.
type MultiChoice struct {
	Question string
	Options  []string
	Correct  []bool
	Cursor   int
	Chosen   int
	Locked   bool
	Revealed bool
}

// NewMultiChoice creates a new multiple-choice component. correct may be
// nil when the answer is never revealed.
func NewMultiChoice(question string, options []string, correct []bool) MultiChoice {
	return MultiChoice{
		Question: question,
		Options:  options,
		Correct:  correct,
		Chosen:   -1,
	}
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Locked || m.Revealed {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case "enter", "space":
		m.Chosen = m.Cursor
	default:
		if i, ok := digitIndex(kmsg.String()); ok && i < len(m.Options) {
			m.Cursor = i
			m.Chosen = i
		}
	}

	return m, nil
}

// HasChoice reports whether an option has been chosen.
func (m MultiChoice) HasChoice() bool {
	return m.Chosen >= 0
}

// View renders the multiple-choice component.
func (m MultiChoice) View() string {
	var b strings.Builder
	if m.Question != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Question))
		b.WriteString("\n\n")
	}

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor && !m.Locked && !m.Revealed {
			prefix = "▸ "
		}
		mark := " "
		if i == m.Chosen {
			mark = "●"
		}
		line := fmt.Sprintf("%s%s %s)  %s", prefix, mark, OptionLetter(i), opt)

		var style lipgloss.Style
		switch {
		case m.Revealed && i < len(m.Correct) && m.Correct[i]:
			style = theme.Correct
		case m.Revealed && i == m.Chosen:
			style = theme.Incorrect
		case m.Revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Chosen:
			style = theme.Selected
		case i == m.Cursor && !m.Locked:
			style = lipgloss.NewStyle().Foreground(theme.Primary)
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}

// OptionLetter returns the display letter for option i.
func OptionLetter(i int) string {
	return string(rune('A' + i))
}

// digitIndex maps "1".."9" to option indices.
func digitIndex(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	return int(key[0] - '1'), true
}
