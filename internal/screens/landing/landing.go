package landing

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mixingo/mixingo/internal/fixtures"
	"github.com/mixingo/mixingo/internal/flow"
	"github.com/mixingo/mixingo/internal/screen"
	"github.com/mixingo/mixingo/internal/session"
	"github.com/mixingo/mixingo/internal/ui/components"
	"github.com/mixingo/mixingo/internal/ui/layout"
	"github.com/mixingo/mixingo/internal/ui/theme"
)

const tickInterval = 40 * time.Millisecond

type tickMsg time.Time

// LandingScreen introduces the app and starts a session.
type LandingScreen struct {
	sess *session.Session
	menu components.Menu

	// shown counts up to target for the acceleration teaser.
	shown  int
	target int
}

var _ screen.Screen = (*LandingScreen)(nil)

// New creates a LandingScreen for sess.
func New(sess *session.Session) *LandingScreen {
	l := &LandingScreen{
		sess:   sess,
		target: int(fixtures.Analysis().AccelerationPercent),
	}
	l.menu = components.NewMenu([]components.MenuItem{
		{Label: "GET STARTED", Hint: "Pick your languages and take a 3-question warm-up", Action: l.begin},
		{Label: "QUIT", Action: func() tea.Cmd { return tea.Quit }},
	})
	return l
}

func (l *LandingScreen) Title() string {
	return ""
}

func (l *LandingScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (l *LandingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if l.shown >= l.target {
			return l, nil
		}
		l.shown++
		return l, tick()

	case tea.KeyPressMsg:
		var cmd tea.Cmd
		l.menu, cmd = l.menu.Update(msg)
		return l, cmd
	}
	return l, nil
}

func (l *LandingScreen) begin() tea.Cmd {
	t, err := flow.Next(flow.RouteLanding, flow.TriggerBegin, flow.Input{Session: l.sess})
	if err != nil {
		return nil
	}
	return func() tea.Msg { return flow.Navigate(t) }
}

func (l *LandingScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, RenderBanner(width), "")

	sections = append(sections, lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render("Your languages do the work."))
	sections = append(sections, lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render("We map what transfers from the languages you speak, so you never start from zero."))
	sections = append(sections, "")

	sections = append(sections, lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true).
		Render(fmt.Sprintf("Target acceleration: +%d%% avg", l.shown)))
	sections = append(sections, "")

	sections = append(sections, l.menu.View())

	mode := "Live mode: answers are analysed by the Mixingo server."
	if l.sess != nil && l.sess.DemoMode {
		mode = "Demo mode: sample data, no network calls. Ctrl+D switches to live."
	}
	sections = append(sections, theme.Hint.Render(mode))

	return layout.Center(strings.Join(sections, "\n"), width, height)
}

func (l *LandingScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+D", Description: "Demo/Live"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
