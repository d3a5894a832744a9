package app

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mixingo/mixingo/internal/flow"
	"github.com/mixingo/mixingo/internal/router"
	"github.com/mixingo/mixingo/internal/screen"
	"github.com/mixingo/mixingo/internal/screens/exercises"
	"github.com/mixingo/mixingo/internal/screens/landing"
	"github.com/mixingo/mixingo/internal/screens/notfound"
	"github.com/mixingo/mixingo/internal/screens/onboarding"
	"github.com/mixingo/mixingo/internal/screens/results"
	"github.com/mixingo/mixingo/internal/screens/warmup"
	"github.com/mixingo/mixingo/internal/session"
	"github.com/mixingo/mixingo/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Controller *flow.Controller
	Registry   *session.Registry

	// Demo starts the first session in demo mode.
	Demo bool

	// StartPath opens the app at a client route instead of the landing page.
	StartPath string

	// Now times warm-up answers. Nil uses time.Now.
	Now func() time.Time
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router   *router.Router
	registry *session.Registry
	ctrl     *flow.Controller
	now      func() time.Time

	sess      *session.Session
	demo      bool
	startPath string

	width  int
	height int
}

// newAppModel creates a new AppModel with a fresh session on the landing screen.
func newAppModel(opts Options) AppModel {
	reg := opts.Registry
	if reg == nil {
		reg = session.NewRegistry()
	}
	sess := reg.Create(opts.Demo)
	return AppModel{
		router:    router.New(landing.New(sess)),
		registry:  reg,
		ctrl:      opts.Controller,
		now:       opts.Now,
		sess:      sess,
		demo:      opts.Demo,
		startPath: opts.StartPath,
	}
}

func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.router.Active().Init()}

	if m.startPath != "" {
		route := flow.ParseRoute(m.startPath)
		switch route {
		case flow.RouteLanding:
		case flow.RouteNotFound:
			nf := notfound.New(m.sess, m.startPath)
			cmds = append(cmds, func() tea.Msg { return router.PushScreenMsg{Screen: nf} })
		default:
			t := flow.Transition{To: route, Payload: flow.Payload{SessionID: m.sess.ID, DemoMode: m.sess.DemoMode}}
			cmds = append(cmds, func() tea.Msg { return flow.Navigate(t) })
		}
	}
	return tea.Batch(cmds...)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		case "ctrl+d":
			return m, m.toggleDemo()
		}

	case flow.NavigateMsg:
		var cmd tea.Cmd
		m, cmd = m.navigate(msg)
		return m, cmd
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// toggleDemo flips demo mode for the active session and tells the
// active screen so it can reload.
func (m *AppModel) toggleDemo() tea.Cmd {
	m.demo = !m.demo
	if !m.sess.SetDemoMode(m.demo) {
		return nil
	}
	slog.Info("demo mode changed", "session", m.sess.ID, "demo", m.demo)
	return m.router.Update(flow.DemoModeChangedMsg{On: m.demo})
}

// navigate shows the screen for a transition. A transition whose session
// is gone starts over at onboarding with a fresh session.
func (m AppModel) navigate(msg flow.NavigateMsg) (AppModel, tea.Cmd) {
	to := msg.To
	sess, ok := m.registry.Get(msg.Payload.SessionID)
	if !ok {
		slog.Warn("navigation without a live session, starting over", "route", to, "session", msg.Payload.SessionID)
		sess = m.registry.Create(m.demo)
		to = flow.RouteOnboarding
	}
	m.sess = sess
	m.demo = sess.DemoMode

	switch to {
	case flow.RouteLanding:
		m.router.PopToRoot()
		return m, m.router.Replace(landing.New(sess))
	case flow.RouteOnboarding:
		m.router.PopToRoot()
		return m, m.router.Push(onboarding.New(sess))
	case flow.RouteNotFound:
		return m, m.router.Push(notfound.New(sess, string(to)))
	}

	s := m.screenFor(to, msg.Payload, sess)
	if m.router.Depth() == 1 {
		return m, m.router.Push(s)
	}
	return m, m.router.Replace(s)
}

func (m AppModel) screenFor(to flow.Route, p flow.Payload, sess *session.Session) screen.Screen {
	switch to {
	case flow.RouteWarmup:
		return warmup.New(sess, m.ctrl, m.now)
	case flow.RouteResults:
		return results.New(sess, m.ctrl)
	case flow.RouteExercises:
		return exercises.New(sess, m.ctrl, p.ModuleID)
	}
	return notfound.New(sess, string(to))
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.sess.DemoMode, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+D", Description: "Demo/Live"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
