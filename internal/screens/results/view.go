package results

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mixingo/mixingo/internal/ctm"
	"github.com/mixingo/mixingo/internal/fixtures"
	"github.com/mixingo/mixingo/internal/flow"
	"github.com/mixingo/mixingo/internal/session"
	"github.com/mixingo/mixingo/internal/ui/components"
	"github.com/mixingo/mixingo/internal/ui/layout"
	"github.com/mixingo/mixingo/internal/ui/theme"
)

const cellWidth = 24

func (r *ResultsScreen) View(width, height int) string {
	if r.loading {
		return r.spinner.View(width)
	}
	if r.blocked {
		return components.ErrorPanel(flow.TextMissingUser, "Press Enter to restart the warm-up.", width)
	}
	if r.analysis == nil {
		return ""
	}

	var b strings.Builder

	if banner := components.Banner(r.advisory, width); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true).
		Render(fmt.Sprintf("+%.0f%% faster", r.analysis.AccelerationPercent)))
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render("  of the course is already covered by the languages you speak."))
	b.WriteString("\n\n")

	b.WriteString(r.renderHeatmap())
	b.WriteString("\n")
	b.WriteString(renderLegend())
	b.WriteString("\n\n")

	if sig := r.sess.Signals; sig != nil {
		b.WriteString(renderSignals(*sig))
		b.WriteString("\n\n")
	}

	if !layout.IsCompactHeight(height) {
		b.WriteString(r.renderHighlights())
		b.WriteString("\n")
		for _, note := range r.analysis.ExplainabilityNotes {
			b.WriteString(theme.Hint.Render("· " + note))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(r.renderOrder())
	b.WriteString("\n\n")

	b.WriteString(r.start.View())

	return lipgloss.NewStyle().Width(width).Padding(1, 2).Render(b.String())
}

func (r *ResultsScreen) renderHeatmap() string {
	const perRow = 3
	var rows []string
	var row []string
	for i, c := range r.analysis.Heatmap {
		style := theme.SeverityColor(c.Severity).Bold(true).Width(cellWidth)
		if r.focus == focusHeatmap && i == r.cursor {
			style = style.Reverse(true)
		}
		label := fmt.Sprintf("■ %s", ctm.ModuleName(c.ModuleID))
		if c.SkillArea != "" {
			label += lipgloss.NewStyle().Faint(true).Render(" " + c.SkillArea)
		}
		row = append(row, style.Render(label))
		if len(row) == perRow || i == len(r.analysis.Heatmap)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	return strings.Join(rows, "\n")
}

func renderLegend() string {
	parts := make([]string, 0, len(ctm.Severities))
	for _, s := range ctm.Severities {
		parts = append(parts, theme.SeverityColor(s).Render("■ "+s.String()))
	}
	return strings.Join(parts, "   ")
}

// renderHighlights shows the strength and growth lists. Sample plans use
// the curated highlights that accompany the sample map.
func (r *ResultsScreen) renderHighlights() string {
	strengths := r.analysis.Strengths()
	growth := r.analysis.GrowthAreas()
	if r.sample || r.sess.DemoMode {
		h := fixtures.SampleHighlights()
		strengths, growth = h.Strengths, h.GrowthAreas
	}

	left := theme.Correct.Render("What transfers") + "\n" + bullets(strengths)
	right := theme.Incorrect.Render("What to build") + "\n" + bullets(growth)
	if refine := r.analysis.RefinementAreas(); len(refine) > 0 {
		right += "\n" + lipgloss.NewStyle().Foreground(theme.Warning).Render("Polish: "+strings.Join(refine, ", "))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(36).Render(left),
		right,
	)
}

// renderSignals summarises the last warm-up: accuracy, average answer time
// and mistakes per category.
func renderSignals(sig session.Signals) string {
	errs := make([]string, 0, len(session.Categories))
	for _, c := range session.Categories {
		errs = append(errs, fmt.Sprintf("%s %d", c, sig.ErrorDistribution[c]))
	}
	return theme.Heading.Render("Warm-up: ") +
		lipgloss.NewStyle().Foreground(theme.Text).Render(fmt.Sprintf(
			"%.0f%% accuracy · %.1fs avg per answer", sig.AccuracyRate*100, sig.AvgResponseTime)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("  mistakes: "+strings.Join(errs, ", "))
}

func (r *ResultsScreen) renderOrder() string {
	names := make([]string, 0, len(r.analysis.RecommendedModuleOrder))
	for _, id := range r.analysis.RecommendedModuleOrder {
		names = append(names, ctm.ModuleName(id))
	}
	if len(names) == 0 {
		names = append(names, ctm.ModuleName(ctm.DefaultStartModule))
	}
	return theme.Heading.Render("Recommended path: ") +
		lipgloss.NewStyle().Foreground(theme.Text).Render(strings.Join(names, " → "))
}

func bullets(items []string) string {
	var b strings.Builder
	for _, it := range items {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render("· " + it))
		b.WriteString("\n")
	}
	return b.String()
}
