package exercises

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mixingo/mixingo/internal/ctm"
	"github.com/mixingo/mixingo/internal/ui/components"
	"github.com/mixingo/mixingo/internal/ui/theme"
)

func (e *ExercisesScreen) View(width, height int) string {
	if e.loading {
		return e.spinner.View(width)
	}
	if e.practice == nil {
		return ""
	}

	items := e.practice.Items()
	it := items[e.current]

	var b strings.Builder

	if banner := components.Banner(e.advisory, width); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n\n")
	}

	b.WriteString(theme.Heading.Render(ctm.ModuleName(e.moduleID)))
	if e.explanation != "" {
		b.WriteString(theme.Hint.Render("  " + e.explanation))
	}
	b.WriteString("\n\n")

	score := components.NewProgressBar("Acceleration score", float64(e.practice.Score())/100, width-8).
		WithSuffix(fmt.Sprintf("%d%%", e.practice.Score()))
	b.WriteString(score.View())
	b.WriteString("\n\n")

	header := fmt.Sprintf("Exercise %d of %d · %s", e.current+1, len(items), it.Title)
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(header))
	b.WriteString("  ")
	b.WriteString(categoryStyle(it.Category).Render(it.Category))
	if it.Audio {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("  ♪ listen"))
	}
	b.WriteString("\n")
	if it.Description != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(it.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(e.choice.View())
	b.WriteString("\n")

	switch {
	case e.choice.Revealed:
		verdict := theme.Correct.Render("Correct!")
		if !e.lastCorrect {
			verdict = theme.Incorrect.Render("Not quite. The answer is " + it.Correct() + ".")
		}
		b.WriteString(verdict)
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(it.HintContext + ": " + it.Hint))
	case it.Status != "":
		b.WriteString(theme.Hint.Render(it.Status))
	}

	if e.practice.Complete() {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(
			fmt.Sprintf("All exercises checked: %d of %d correct.", e.practice.CorrectCount(), len(items))))
	}

	return lipgloss.NewStyle().Width(width).Padding(1, 4).Render(b.String())
}

func categoryStyle(category string) lipgloss.Style {
	for _, s := range ctm.Severities {
		if s.String() == category {
			return theme.SeverityColor(s)
		}
	}
	return lipgloss.NewStyle().Foreground(theme.TextDim)
}
