package warmup

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mixingo/mixingo/internal/ui/components"
	"github.com/mixingo/mixingo/internal/ui/theme"
)

func (w *WarmupScreen) View(width, height int) string {
	if w.submitting {
		return w.spinner.View(width)
	}

	questions := w.warmup.Questions()
	q := questions[w.current]

	var b strings.Builder

	tag := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("Question %d of %d · %s", w.current+1, len(questions), q.Tag))
	b.WriteString(tag)
	b.WriteString("\n\n")

	bar := components.NewProgressBar("Warm-up", w.warmup.Progress(), width-8).
		WithSuffix(fmt.Sprintf("%d/%d answered", w.warmup.AnsweredCount(), len(questions)))
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	b.WriteString(w.choice.View())

	if w.choice.Locked {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(q.Insight))
		b.WriteString("\n\n")
		next := "Press Enter for the next question."
		if w.warmup.Complete() {
			next = "All answered. Press Enter to see your results."
		}
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(next))
	}

	return lipgloss.NewStyle().Width(width).Padding(1, 4).Render(b.String())
}
