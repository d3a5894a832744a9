// Package layout draws the frame around every screen: a header with the
// screen title and mode badge, a footer of key hints, and the size guard.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mixingo/mixingo/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	// Below this height screens drop secondary blocks such as notes.
	CompactHeightThreshold = 30
)

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsCompactHeight(height int) bool {
	return height < CompactHeightThreshold
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Warning).Bold(true).Render("Mixingo needs a bigger window"),
		"",
		lipgloss.NewStyle().Foreground(theme.Text).Render(fmt.Sprintf("at least %d × %d", MinWidth, MinHeight)),
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("now %d × %d", width, height)),
	)
	return Center(body, width, height)
}

var bar = lipgloss.NewStyle().
	Background(theme.BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border)

// RenderHeader shows the brand on the left, the title centred and the
// DEMO/LIVE badge on the right.
func RenderHeader(title string, demo bool, width int) string {
	inner := max(width-bar.GetHorizontalFrameSize(), 0)

	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(" Mixingo")
	badge := ModeBadge(demo)
	side := max(lipgloss.Width(brand), lipgloss.Width(badge))
	mid := max(inner-2*side, 0)

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.PlaceHorizontal(side, lipgloss.Left, brand),
		lipgloss.PlaceHorizontal(mid, lipgloss.Center, lipgloss.NewStyle().Foreground(theme.Text).Render(title)),
		lipgloss.PlaceHorizontal(side, lipgloss.Right, badge),
	)
	return bar.Width(width).Render(row)
}

// ModeBadge renders the DEMO or LIVE marker.
func ModeBadge(demo bool) string {
	label, bg := " LIVE ", theme.Success
	if demo {
		label, bg = " DEMO ", theme.Accent
	}
	return lipgloss.NewStyle().Foreground(theme.BgDark).Background(bg).Bold(true).Render(label)
}

// RenderFooter lays out hints left to right and drops the ones that do not
// fit on a single line.
func RenderFooter(hints []KeyHint, width int) string {
	avail := max(width-bar.GetHorizontalFrameSize()-2, 0)

	var b strings.Builder
	used := 0
	for _, h := range hints {
		part := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) + " " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
		w := lipgloss.Width(part)
		if used > 0 {
			w += 3
		}
		if used+w > avail {
			break
		}
		if used > 0 {
			b.WriteString("   ")
		}
		b.WriteString(part)
		used += w
	}
	return bar.Width(width).Render(" " + b.String())
}

// RenderFrame stacks header, content and footer, giving the content all the
// height that is left.
func RenderFrame(header, content, footer string, width, height int) string {
	rest := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(rest).MaxHeight(rest).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// Center places s in the middle of a width × height box.
func Center(s string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s)
}
