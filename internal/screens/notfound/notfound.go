package notfound

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mixingo/mixingo/internal/flow"
	"github.com/mixingo/mixingo/internal/screen"
	"github.com/mixingo/mixingo/internal/session"
	"github.com/mixingo/mixingo/internal/ui/layout"
	"github.com/mixingo/mixingo/internal/ui/theme"
)

// NotFoundScreen is shown for routes the client does not know.
type NotFoundScreen struct {
	sess *session.Session
	path string
}

var _ screen.Screen = (*NotFoundScreen)(nil)

// New creates a NotFoundScreen for the requested path.
func New(sess *session.Session, path string) *NotFoundScreen {
	return &NotFoundScreen{sess: sess, path: path}
}

func (n *NotFoundScreen) Title() string {
	return "Not Found"
}

func (n *NotFoundScreen) Init() tea.Cmd {
	return nil
}

func (n *NotFoundScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(tea.KeyPressMsg); !ok {
		return n, nil
	}
	t, err := flow.Next(flow.RouteNotFound, flow.TriggerHome, flow.Input{Session: n.sess})
	if err != nil {
		return n, nil
	}
	return n, func() tea.Msg { return flow.Navigate(t) }
}

func (n *NotFoundScreen) View(width, height int) string {
	text := lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("404") + "\n\n" +
		lipgloss.NewStyle().Foreground(theme.Text).Render(fmt.Sprintf("There is nothing at %q.", n.path)) + "\n\n" +
		theme.Hint.Render("Press any key to go home.")
	return layout.Center(text, width, height)
}
