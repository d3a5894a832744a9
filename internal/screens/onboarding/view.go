package onboarding

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mixingo/mixingo/internal/session"
	"github.com/mixingo/mixingo/internal/ui/theme"
)

const cellWidth = 19

func (o *OnboardingScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(o.heading(sectionKnown, "Languages you already speak"))
	b.WriteString("\n")
	b.WriteString(o.renderKnown())
	b.WriteString("\n")

	b.WriteString(o.heading(sectionTarget, "Language you want to learn"))
	b.WriteString("\n")
	b.WriteString(o.renderRow(sectionTarget, session.TargetLanguages, o.sess.Selection.Target))
	b.WriteString("\n\n")

	b.WriteString(o.heading(sectionGoal, "Your goal"))
	b.WriteString("\n")
	b.WriteString(o.renderRow(sectionGoal, session.Goals, o.sess.Selection.Goal))
	b.WriteString("\n\n")

	if o.sess.Selection.CanStart() {
		route := session.ProfileFromSelection(o.sess.Selection).Route()
		b.WriteString("  " + lipgloss.NewStyle().Foreground(theme.Secondary).Render(route))
		b.WriteString("\n")
	}

	b.WriteString(o.start.View())

	if o.hint != "" {
		b.WriteString("\n  " + lipgloss.NewStyle().Foreground(theme.Error).Render(o.hint))
	}

	return lipgloss.NewStyle().Width(width).Padding(1, 2).Render(b.String())
}

func (o *OnboardingScreen) heading(s section, text string) string {
	if o.focus == s {
		return theme.Heading.Render("▸ " + text)
	}
	return lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true).Render("  " + text)
}

func (o *OnboardingScreen) renderKnown() string {
	var b strings.Builder
	for i, lang := range session.Languages {
		if i%knownColumns == 0 {
			b.WriteString("  ")
		}

		label := "[ ] " + lang
		style := theme.Unselected
		if e, ok := o.sess.Selection.Entry(lang); ok {
			label = fmt.Sprintf("[x] %s %s", lang, levelTag(e.Level))
			style = theme.Correct
		}
		if o.focus == sectionKnown && o.cursor[sectionKnown] == i {
			style = style.Reverse(true)
		}
		b.WriteString(style.Width(cellWidth).Render(label))

		if i%knownColumns == knownColumns-1 || i == len(session.Languages)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (o *OnboardingScreen) renderRow(s section, options []string, picked string) string {
	parts := make([]string, 0, len(options))
	for i, opt := range options {
		style := theme.Unselected
		label := opt
		if opt == picked {
			style = theme.Correct
			label = "● " + opt
		}
		if o.focus == s && o.cursor[s] == i {
			style = style.Reverse(true)
		}
		parts = append(parts, style.Render(label))
	}
	return "  " + strings.Join(parts, "  ")
}

// levelTag abbreviates a level to fit the language grid.
func levelTag(l session.Level) string {
	switch l {
	case session.LevelIntermediate:
		return "(Int)"
	case session.LevelAdvanced:
		return "(Adv)"
	default:
		return "(" + string(l)[:3] + ")"
	}
}
